package dialog

import (
	"sort"
	"strings"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

// Table keys with reserved meaning.
const (
	keyRequiredSlots = "hasRequiredSlots"
	keyDefault       = "default"
)

// builtinTable is the five-state fallback used when no transition table is
// configured.
var builtinTable = map[string]map[string]string{
	string(models.StateInit): {
		"service_inquiry|price_inquiry": string(models.StateCollectingInfo),
		"handoff_to_human|complaint":    string(models.StateComplete),
	},
	string(models.StateCollectingInfo): {
		keyRequiredSlots: string(models.StateRecommending),
	},
	string(models.StateRecommending): {
		"comparison|service_inquiry": string(models.StateFollowUp),
		"goodbye|handoff_to_human":   string(models.StateComplete),
	},
	string(models.StateFollowUp): {
		"goodbye|handoff_to_human": string(models.StateComplete),
	},
}

// Next computes the follow-on state. Pure: identical inputs always yield the
// identical output. Lookup order within the current state's row:
// hasRequiredSlots entry (when the flag is set), exact intent key,
// pipe-delimited multi-intent key containing the intent, the row's default,
// and finally the unchanged current state.
func Next(state models.State, intent models.Intent, hasRequiredSlots bool, table *knowledge.TransitionTable) models.State {
	rows := builtinTable
	if table != nil && len(table.Transitions) > 0 {
		rows = table.Transitions
	}

	row, ok := rows[string(state)]
	if !ok {
		return state
	}

	if hasRequiredSlots {
		if next, ok := row[keyRequiredSlots]; ok {
			return models.State(next)
		}
	}
	if next, ok := row[string(intent)]; ok {
		return models.State(next)
	}
	if key, ok := matchPipeKey(row, intent); ok {
		return models.State(row[key])
	}
	if next, ok := row[keyDefault]; ok {
		return models.State(next)
	}
	return state
}

// matchPipeKey finds the pipe-delimited key containing the intent. Keys are
// scanned in lexical order so the lookup stays deterministic.
func matchPipeKey(row map[string]string, intent models.Intent) (string, bool) {
	keys := make([]string, 0, len(row))
	for key := range row {
		if strings.Contains(key, "|") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, part := range strings.Split(key, "|") {
			if part == string(intent) {
				return key, true
			}
		}
	}
	return "", false
}

// HasRequiredSlots reports whether the conversation has gathered enough to
// recommend. Default rule: service_type or use_case present. A table may
// override with an explicit any/all check over named slots.
func HasRequiredSlots(slots map[string]string, table *knowledge.TransitionTable) bool {
	if table == nil || table.RequiredSlots == nil || len(table.RequiredSlots.Slots) == 0 {
		return slots[models.SlotServiceType] != "" || slots[models.SlotUseCase] != ""
	}

	spec := table.RequiredSlots
	if strings.EqualFold(spec.Mode, "all") {
		for _, name := range spec.Slots {
			if slots[name] == "" {
				return false
			}
		}
		return true
	}
	for _, name := range spec.Slots {
		if slots[name] != "" {
			return true
		}
	}
	return false
}
