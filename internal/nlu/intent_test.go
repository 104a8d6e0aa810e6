package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

func testIntentConfig() *knowledge.IntentConfig {
	return &knowledge.IntentConfig{
		DefaultIntent:   "general_inquiry",
		ShortMessageMax: 10,
		Rules: []knowledge.IntentRule{
			{Intent: "greeting", Priority: 1, Keywords: []string{"你好", "您好", "hello", "hi"}},
			{Intent: "handoff_to_human", Priority: 2, Keywords: []string{"人工", "转人工", "真人"}},
			{Intent: "price_inquiry", Priority: 3, Keywords: []string{"多少钱", "价格", "费用"}, ContextKeywords: []string{"贵", "便宜"}},
			{Intent: "booking", Priority: 4, Keywords: []string{"预约", "改期"}, ExcludeKeywords: []string{"取消预约"}},
			{Intent: "goodbye", Priority: 5, Keywords: []string{"再见", "拜拜"}},
		},
	}
}

func TestClassifyKeywordMatch(t *testing.T) {
	cfg := testIntentConfig()

	tests := []struct {
		message string
		want    models.Intent
	}{
		{"你好", models.IntentGreeting},
		{"请帮我转人工客服", models.IntentHandoff},
		{"剪发多少钱一次", models.IntentPriceInquiry},
		{"我想预约周六下午", models.IntentBooking},
		{"好的再见", models.IntentGoodbye},
		{"帮我介绍一下你们的门店环境", models.IntentGeneral},
	}
	for _, tt := range tests {
		got := Classify(tt.message, Prior{}, cfg)
		assert.Equal(t, tt.want, got, "message %q", tt.message)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	cfg := &knowledge.IntentConfig{
		DefaultIntent: "general_inquiry",
		Rules: []knowledge.IntentRule{
			// Listed out of order: lower priority must still win.
			{Intent: "booking", Priority: 5, Keywords: []string{"预约"}},
			{Intent: "price_inquiry", Priority: 1, Keywords: []string{"预约"}},
		},
	}
	got := Classify("我要预约", Prior{}, cfg)
	assert.Equal(t, models.IntentPriceInquiry, got)
}

func TestClassifyExcludeKeywordSkipsRule(t *testing.T) {
	cfg := testIntentConfig()
	got := Classify("帮我取消预约", Prior{}, cfg)
	assert.NotEqual(t, models.IntentBooking, got)
}

func TestClassifyContextKeywordNeedsPrior(t *testing.T) {
	cfg := testIntentConfig()

	// "太贵了" hits only the price rule's context keywords.
	cold := Classify("这也太贵了吧，有优惠吗", Prior{}, cfg)
	assert.NotEqual(t, models.IntentPriceInquiry, cold)

	warm := Classify("这也太贵了吧，有优惠吗", Prior{LastIntent: models.IntentServiceInquiry}, cfg)
	assert.Equal(t, models.IntentPriceInquiry, warm)
}

func TestClassifyMaxLengthRule(t *testing.T) {
	cfg := &knowledge.IntentConfig{
		DefaultIntent: "general_inquiry",
		Rules: []knowledge.IntentRule{
			{Intent: "greeting", Priority: 1, MaxLength: 4},
		},
	}
	assert.Equal(t, models.IntentGreeting, Classify("嗨嗨", Prior{}, cfg))
	assert.Equal(t, models.IntentGeneral, Classify("这句话明显超过四个字了", Prior{}, cfg))
}

func TestClassifyShortMessageReusesPriorIntent(t *testing.T) {
	cfg := testIntentConfig()

	got := Classify("那烫发呢", Prior{LastIntent: models.IntentPriceInquiry}, cfg)
	assert.Equal(t, models.IntentPriceInquiry, got)

	// Without a prior turn the default applies.
	got = Classify("那烫发呢", Prior{}, cfg)
	assert.Equal(t, models.IntentGeneral, got)
}

func TestClassifyLongFollowUpDoesNotReusePrior(t *testing.T) {
	cfg := testIntentConfig()
	got := Classify("我还想了解一下你们家烫发用的是什么牌子的药水", Prior{LastIntent: models.IntentPriceInquiry}, cfg)
	assert.Equal(t, models.IntentGeneral, got)
}

func TestClassifyUnknownConfiguredIntentFallsBack(t *testing.T) {
	cfg := &knowledge.IntentConfig{
		DefaultIntent: "general_inquiry",
		Rules: []knowledge.IntentRule{
			{Intent: "made_up_intent", Priority: 1, Keywords: []string{"特价"}},
		},
	}
	got := Classify("有特价吗", Prior{}, cfg)
	assert.Equal(t, models.IntentGeneral, got)
}

func TestClassifyNilConfig(t *testing.T) {
	assert.Equal(t, models.IntentGeneral, Classify("随便说点什么都是兜底意图", Prior{}, nil))
	assert.Equal(t, models.IntentBooking, Classify("改到周日", Prior{LastIntent: models.IntentBooking}, nil))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	cfg := testIntentConfig()
	assert.Equal(t, models.IntentGreeting, Classify("HELLO there", Prior{}, cfg))
}

func TestClassifyDeterministic(t *testing.T) {
	cfg := testIntentConfig()
	first := Classify("你好，想问下价格", Prior{}, cfg)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify("你好，想问下价格", Prior{}, cfg))
	}
}
