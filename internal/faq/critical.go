package faq

import (
	"strings"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

// criticalRule is an intent's critical short-circuit policy: whether the
// message warrants checking the critical list at all, and which entries
// qualify as candidates.
type criticalRule struct {
	check  func(lowerMsg string, policies []knowledge.PolicyEntry) bool
	filter func(entry knowledge.PolicyEntry) bool
}

// CriticalAnswer runs the critical short-circuit path. When the intent's
// rule fires and a filtered policy entry matches the message, the stored
// answer is returned verbatim and the caller must not run generation.
func CriticalAnswer(intent models.Intent, message string, policies []knowledge.PolicyEntry) (string, bool) {
	rule, ok := ruleFor(intent)
	if !ok {
		return "", false
	}
	lower := strings.ToLower(message)
	if !rule.check(lower, policies) {
		return "", false
	}
	for _, entry := range policies {
		if !rule.filter(entry) {
			continue
		}
		if keywordHit(lower, entry.Keywords) {
			return entry.Answer, true
		}
	}
	return "", false
}

// ruleFor dispatches on the closed intent set. Intents without an entry do
// not consult the critical list.
func ruleFor(intent models.Intent) (criticalRule, bool) {
	switch intent {
	case models.IntentPriceInquiry,
		models.IntentServiceInquiry,
		models.IntentBooking,
		models.IntentComplaint,
		models.IntentGeneral:
		return criticalRule{
			check:  anyCriticalKeyword,
			filter: func(e knowledge.PolicyEntry) bool { return e.Critical },
		}, true
	case models.IntentGreeting,
		models.IntentGoodbye,
		models.IntentHandoff,
		models.IntentComparison,
		models.IntentLocationInquiry:
		return criticalRule{}, false
	}
	return criticalRule{}, false
}

// anyCriticalKeyword is the default predicate: only bother scanning when
// some critical entry's keyword occurs in the message.
func anyCriticalKeyword(lowerMsg string, policies []knowledge.PolicyEntry) bool {
	for _, entry := range policies {
		if entry.Critical && keywordHit(lowerMsg, entry.Keywords) {
			return true
		}
	}
	return false
}

func keywordHit(lowerMsg string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowerMsg, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
