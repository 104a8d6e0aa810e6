package generation

import (
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n?.*?```")

// Sanitize defensively strips residual code fences and JSON-shaped
// fragments a model may emit despite the prompt rules.
func Sanitize(text string) string {
	out := fenceRe.ReplaceAllString(text, "")
	out = stripJSONFragments(out)
	out = strings.TrimSpace(out)
	return out
}

// stripJSONFragments removes balanced {...} / [...] spans that actually
// parse as JSON; prose brackets stay untouched.
func stripJSONFragments(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '{' || c == '[' {
			if end, ok := matchBracket(s, i); ok {
				frag := s[i : end+1]
				if sonic.Valid([]byte(frag)) {
					i = end + 1
					continue
				}
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// matchBracket finds the index of the bracket closing s[start], honoring
// JSON string literals and escapes.
func matchBracket(s string, start int) (int, bool) {
	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
