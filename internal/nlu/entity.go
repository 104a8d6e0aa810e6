package nlu

import (
	"sort"
	"strings"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

// slotOrder fixes the extraction order for the known slots.
var slotOrder = []string{
	models.SlotServiceType,
	models.SlotUseCase,
	models.SlotPersona,
	models.SlotBranch,
	models.SlotBookingAction,
}

// bookingKeywords back the degraded heuristic when no pattern table is
// loaded.
var bookingKeywords = []string{"预约", "改期", "取消预约", "book", "booking", "appointment", "reschedule"}

// ExtractEntities fills slots from the message. Per slot, patterns are tried
// in table order and the first pattern with a substring keyword hit in the
// lowercased message wins; slots without a hit stay absent. A missing table
// degrades to the booking keyword heuristic.
func ExtractEntities(message string, table knowledge.EntityTable) map[string]string {
	lower := strings.ToLower(message)
	entities := map[string]string{}

	if table == nil {
		if containsAny(lower, bookingKeywords) {
			entities[models.SlotBookingAction] = "book"
		}
		return entities
	}

	for _, slot := range slotNames(table) {
		for _, pattern := range table[slot] {
			if containsAny(lower, pattern.Keywords) {
				entities[slot] = pattern.Value
				break
			}
		}
	}
	return entities
}

// MergeEntities overlays extracted entities onto stored slots; new values
// override old, untouched keys survive.
func MergeEntities(stored, extracted map[string]string) map[string]string {
	merged := make(map[string]string, len(stored)+len(extracted))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range extracted {
		merged[k] = v
	}
	return merged
}

// slotNames returns the known slots first, then any extra table slots in
// lexical order so extraction stays deterministic.
func slotNames(table knowledge.EntityTable) []string {
	names := make([]string, 0, len(table))
	seen := map[string]bool{}
	for _, s := range slotOrder {
		if _, ok := table[s]; ok {
			names = append(names, s)
			seen[s] = true
		}
	}
	var extra []string
	for s := range table {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
