package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

func testPolicies() []knowledge.PolicyEntry {
	return []knowledge.PolicyEntry{
		{
			ID:       "refund",
			Question: "可以退款吗",
			Answer:   "已完成的服务不支持退款，未使用的预付项目可在七天内全额退回。",
			Keywords: []string{"退款", "退钱"},
			Critical: true,
		},
		{
			ID:       "minor",
			Question: "未成年人可以烫染吗",
			Answer:   "未满十六周岁的顾客须由监护人陪同并签署知情同意书。",
			Keywords: []string{"未成年", "小孩", "烫染"},
			Critical: true,
		},
		{
			ID:       "parking",
			Question: "有停车位吗",
			Answer:   "门店后方有免费停车场。",
			Keywords: []string{"停车"},
		},
	}
}

func TestCriticalAnswerReturnsStoredTextVerbatim(t *testing.T) {
	answer, ok := CriticalAnswer(models.IntentGeneral, "我想退款，怎么操作", testPolicies())
	require.True(t, ok)
	assert.Equal(t, "已完成的服务不支持退款，未使用的预付项目可在七天内全额退回。", answer)
}

func TestCriticalAnswerCheckedIntents(t *testing.T) {
	for _, intent := range []models.Intent{
		models.IntentPriceInquiry,
		models.IntentServiceInquiry,
		models.IntentBooking,
		models.IntentComplaint,
		models.IntentGeneral,
	} {
		_, ok := CriticalAnswer(intent, "小孩可以烫染吗", testPolicies())
		assert.True(t, ok, "intent %s must consult the critical list", intent)
	}
}

func TestCriticalAnswerUncheckedIntents(t *testing.T) {
	for _, intent := range []models.Intent{
		models.IntentGreeting,
		models.IntentGoodbye,
		models.IntentHandoff,
		models.IntentComparison,
		models.IntentLocationInquiry,
	} {
		_, ok := CriticalAnswer(intent, "我想退款", testPolicies())
		assert.False(t, ok, "intent %s must skip the critical list", intent)
	}
}

func TestCriticalAnswerIgnoresNonCriticalEntries(t *testing.T) {
	_, ok := CriticalAnswer(models.IntentGeneral, "请问有停车位吗", testPolicies())
	assert.False(t, ok)
}

func TestCriticalAnswerNoKeywordHit(t *testing.T) {
	_, ok := CriticalAnswer(models.IntentGeneral, "今天天气不错", testPolicies())
	assert.False(t, ok)
}

func TestCriticalAnswerEmptyPolicies(t *testing.T) {
	_, ok := CriticalAnswer(models.IntentGeneral, "我想退款", nil)
	assert.False(t, ok)
}
