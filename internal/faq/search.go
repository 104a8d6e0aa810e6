package faq

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"chatdesk/internal/knowledge"
)

const maxResults = 5

// Match is one scored FAQ candidate.
type Match struct {
	Entry knowledge.FAQEntry
	Score int
}

// Search scores every question in the categorized FAQ tree against the query
// and returns the top candidates, best first. Only entries scoring above
// zero qualify; ties break toward the shorter question text.
func Search(query string, doc knowledge.FAQDocument) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	words := queryWords(q)

	var matches []Match
	for _, cat := range doc.Categories {
		for _, entry := range cat.Questions {
			if score := scoreEntry(q, words, entry); score > 0 {
				matches = append(matches, Match{Entry: entry, Score: score})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return utf8.RuneCountInString(matches[i].Entry.Question) < utf8.RuneCountInString(matches[j].Entry.Question)
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

func scoreEntry(q string, words []string, entry knowledge.FAQEntry) int {
	question := strings.ToLower(entry.Question)
	answer := strings.ToLower(entry.Answer)

	score := 0
	if question == q {
		score += 10
	}
	if strings.Contains(question, q) {
		score += 5
	}
	for _, kw := range entry.Keywords {
		kl := strings.ToLower(kw)
		if kl == "" {
			continue
		}
		switch {
		case strings.Contains(q, kl):
			score += 3
		case utf8.RuneCountInString(q) >= 2 && strings.Contains(kl, q):
			score += 2
		}
	}
	matched := 0
	for _, w := range words {
		switch {
		case strings.Contains(question, w):
			score += 2
			matched++
		case strings.Contains(answer, w):
			score++
			matched++
		}
	}
	if strings.HasPrefix(question, q) {
		score += 2
	}
	if strings.Contains(answer, q) {
		score++
	}
	if len(words) > 0 {
		score += int(math.Round(float64(matched) / float64(len(words)) * 5))
	}
	return score
}

// queryWords splits the query into whitespace-separated terms of at least
// two runes. CJK queries without spaces contribute through the substring,
// keyword and prefix terms instead.
func queryWords(q string) []string {
	var words []string
	for _, f := range strings.Fields(q) {
		if utf8.RuneCountInString(f) >= 2 {
			words = append(words, f)
		}
	}
	return words
}
