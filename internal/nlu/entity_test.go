package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

func testEntityTable() knowledge.EntityTable {
	return knowledge.EntityTable{
		models.SlotServiceType: {
			{Value: "haircut", Keywords: []string{"剪发", "理发", "haircut"}},
			{Value: "coloring", Keywords: []string{"染发", "染色"}},
			{Value: "perm", Keywords: []string{"烫发"}},
		},
		models.SlotUseCase: {
			{Value: "wedding", Keywords: []string{"婚礼", "结婚"}},
			{Value: "daily", Keywords: []string{"日常", "平时"}},
		},
		models.SlotBookingAction: {
			{Value: "book", Keywords: []string{"预约"}},
			{Value: "reschedule", Keywords: []string{"改期"}},
		},
	}
}

func TestExtractEntitiesFillsMatchingSlots(t *testing.T) {
	got := ExtractEntities("我想预约剪发，下周要参加婚礼", testEntityTable())

	assert.Equal(t, map[string]string{
		models.SlotServiceType:   "haircut",
		models.SlotUseCase:       "wedding",
		models.SlotBookingAction: "book",
	}, got)
}

func TestExtractEntitiesAbsentSlotsStayAbsent(t *testing.T) {
	got := ExtractEntities("你们几点开门", testEntityTable())
	assert.Empty(t, got)
}

func TestExtractEntitiesFirstPatternWins(t *testing.T) {
	table := knowledge.EntityTable{
		models.SlotServiceType: {
			{Value: "haircut", Keywords: []string{"发型"}},
			{Value: "coloring", Keywords: []string{"发型设计"}},
		},
	}
	// Both patterns hit; table order decides.
	got := ExtractEntities("想做个发型设计", table)
	assert.Equal(t, "haircut", got[models.SlotServiceType])
}

func TestExtractEntitiesCaseInsensitive(t *testing.T) {
	got := ExtractEntities("I need a HAIRCUT", testEntityTable())
	assert.Equal(t, "haircut", got[models.SlotServiceType])
}

func TestExtractEntitiesUnknownSlotNamesSupported(t *testing.T) {
	table := knowledge.EntityTable{
		"payment_method": {
			{Value: "wechat", Keywords: []string{"微信"}},
		},
	}
	got := ExtractEntities("可以微信支付吗", table)
	assert.Equal(t, "wechat", got["payment_method"])
}

func TestExtractEntitiesNilTableBookingHeuristic(t *testing.T) {
	got := ExtractEntities("我要预约明天下午", nil)
	assert.Equal(t, map[string]string{models.SlotBookingAction: "book"}, got)

	got = ExtractEntities("你们有哪些服务", nil)
	assert.Empty(t, got)
}

func TestMergeEntitiesNewOverridesOld(t *testing.T) {
	stored := map[string]string{
		models.SlotServiceType: "haircut",
		models.SlotUseCase:     "daily",
	}
	extracted := map[string]string{
		models.SlotServiceType: "coloring",
	}

	merged := MergeEntities(stored, extracted)

	assert.Equal(t, "coloring", merged[models.SlotServiceType])
	assert.Equal(t, "daily", merged[models.SlotUseCase])
	// Inputs stay untouched.
	assert.Equal(t, "haircut", stored[models.SlotServiceType])
}

func TestMergeEntitiesEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeEntities(nil, nil))
	assert.Equal(t, map[string]string{"a": "1"}, MergeEntities(map[string]string{"a": "1"}, nil))
	assert.Equal(t, map[string]string{"a": "1"}, MergeEntities(nil, map[string]string{"a": "1"}))
}
