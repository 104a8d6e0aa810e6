package faq

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/knowledge"
)

func docOf(entries ...knowledge.FAQEntry) knowledge.FAQDocument {
	return knowledge.FAQDocument{
		Categories: []knowledge.FAQCategory{
			{ID: "general", Title: "常见问题", Questions: entries},
		},
	}
}

func TestSearchExactMatchOutranksSubstring(t *testing.T) {
	doc := docOf(
		knowledge.FAQEntry{ID: "a", Question: "退款政策是什么", Answer: "七天内可退。"},
		knowledge.FAQEntry{ID: "b", Question: "退款政策", Answer: "七天内可退。"},
	)

	got := Search("退款政策", doc)
	require.NotEmpty(t, got)
	assert.Equal(t, "b", got[0].Entry.ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestSearchKeywordHit(t *testing.T) {
	doc := docOf(
		knowledge.FAQEntry{ID: "a", Question: "办卡有什么优惠", Answer: "首次办理九折。", Keywords: []string{"会员", "办卡"}},
		knowledge.FAQEntry{ID: "b", Question: "营业时间", Answer: "每天十点到九点。"},
	)

	got := Search("会员", doc)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Entry.ID)
}

func TestSearchZeroScoreExcluded(t *testing.T) {
	doc := docOf(
		knowledge.FAQEntry{ID: "a", Question: "退款政策", Answer: "七天内可退。"},
	)
	assert.Empty(t, Search("wifi密码", doc))
}

func TestSearchEmptyQuery(t *testing.T) {
	doc := docOf(knowledge.FAQEntry{ID: "a", Question: "退款政策", Answer: "七天内可退。"})
	assert.Nil(t, Search("", doc))
	assert.Nil(t, Search("   ", doc))
}

func TestSearchCapsResults(t *testing.T) {
	var entries []knowledge.FAQEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, knowledge.FAQEntry{
			ID:       fmt.Sprintf("q%d", i),
			Question: fmt.Sprintf("会员问题%d", i),
			Answer:   "详见会员手册。",
			Keywords: []string{"会员"},
		})
	}

	got := Search("会员", docOf(entries...))
	assert.Len(t, got, maxResults)
}

func TestSearchTieBreaksOnShorterQuestion(t *testing.T) {
	doc := docOf(
		knowledge.FAQEntry{ID: "long", Question: "refund policy details", Answer: "a"},
		knowledge.FAQEntry{ID: "short", Question: "refund faq", Answer: "b"},
	)

	got := Search("refund", doc)
	require.Len(t, got, 2)
	assert.Equal(t, got[0].Score, got[1].Score)
	assert.Equal(t, "short", got[0].Entry.ID)
}

func TestSearchAnswerWordsScoreLowerThanQuestionWords(t *testing.T) {
	doc := docOf(
		knowledge.FAQEntry{ID: "question-hit", Question: "parking space available", Answer: "yes"},
		knowledge.FAQEntry{ID: "answer-hit", Question: "driving directions", Answer: "free parking behind the building"},
	)

	got := Search("parking", doc)
	require.Len(t, got, 2)
	assert.Equal(t, "question-hit", got[0].Entry.ID)
}

func TestSearchSpansCategories(t *testing.T) {
	doc := knowledge.FAQDocument{
		Categories: []knowledge.FAQCategory{
			{ID: "price", Questions: []knowledge.FAQEntry{{ID: "a", Question: "会员价格", Answer: "x"}}},
			{ID: "service", Questions: []knowledge.FAQEntry{{ID: "b", Question: "会员服务", Answer: "y"}}},
		},
	}
	assert.Len(t, Search("会员", doc), 2)
}
