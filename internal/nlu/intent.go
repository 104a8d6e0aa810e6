package nlu

import (
	"sort"
	"strings"
	"unicode/utf8"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

// Prior is the slice of conversation context the classifier may consult.
type Prior struct {
	LastIntent models.Intent
	Slots      map[string]string
}

// fallbackShortMax bounds the "short message reuses prior intent" heuristic
// when the config does not set its own threshold.
const fallbackShortMax = 10

// Classify resolves the intent of a message. Rules are evaluated in
// ascending priority order; a rule matches when one of its keywords occurs
// in the message, or one of its context keywords occurs while a prior turn
// exists, or the message is shorter than the rule's max length — and no
// exclude keyword occurs. The first match wins.
//
// Without a matching rule, a short message with a prior intent reuses it;
// otherwise the configured default applies. Classify is deterministic for
// identical inputs.
func Classify(message string, prior Prior, cfg *knowledge.IntentConfig) models.Intent {
	lower := strings.ToLower(message)
	length := utf8.RuneCountInString(message)

	if cfg == nil {
		if length < fallbackShortMax && prior.LastIntent != "" {
			return prior.LastIntent
		}
		return models.IntentGeneral
	}

	rules := make([]knowledge.IntentRule, len(cfg.Rules))
	copy(rules, cfg.Rules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })

	for _, rule := range rules {
		if containsAny(lower, rule.ExcludeKeywords) {
			continue
		}
		matched := containsAny(lower, rule.Keywords) ||
			(prior.LastIntent != "" && containsAny(lower, rule.ContextKeywords)) ||
			(rule.MaxLength > 0 && length < rule.MaxLength)
		if matched {
			return models.ParseIntent(rule.Intent)
		}
	}

	shortMax := cfg.ShortMessageMax
	if shortMax <= 0 {
		shortMax = fallbackShortMax
	}
	if length < shortMax && prior.LastIntent != "" {
		return prior.LastIntent
	}
	if cfg.DefaultIntent != "" {
		return models.ParseIntent(cfg.DefaultIntent)
	}
	return models.IntentGeneral
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
