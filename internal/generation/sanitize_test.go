package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsCodeFences(t *testing.T) {
	in := "您好！这是价目表。\n```json\n{\"price\": 188}\n```\n欢迎到店咨询。"
	got := Sanitize(in)
	assert.NotContains(t, got, "```")
	assert.NotContains(t, got, "price")
	assert.Contains(t, got, "价目表")
	assert.Contains(t, got, "欢迎到店咨询")
}

func TestSanitizeStripsBareJSONObject(t *testing.T) {
	in := `剪发价格如下 {"service": "haircut", "price": 88} 欢迎预约。`
	got := Sanitize(in)
	assert.NotContains(t, got, "haircut")
	assert.Contains(t, got, "剪发价格如下")
	assert.Contains(t, got, "欢迎预约")
}

func TestSanitizeStripsJSONArray(t *testing.T) {
	in := `可选项目：["剪发","染发"] 请问您想做哪一种？`
	got := Sanitize(in)
	assert.NotContains(t, got, "[")
	assert.Contains(t, got, "请问您想做哪一种")
}

func TestSanitizeKeepsProseBraces(t *testing.T) {
	in := "营业时间 {周一到周日} 都可以来"
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeKeepsUnbalancedBrackets(t *testing.T) {
	in := "价格区间是 88 到 188 之间（含 { 符号"
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeNestedJSONWithEscapedQuotes(t *testing.T) {
	in := `好的。{"note": "he said \"hi\"", "tags": ["a", "b"]} 以上。`
	got := Sanitize(in)
	assert.Equal(t, "好的。 以上。", got)
}

func TestSanitizeTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "您好", Sanitize("  您好  \n"))
}

func TestSanitizePlainTextUntouched(t *testing.T) {
	in := "您好！剪发 88 元起，染发 188 元起，欢迎到店体验。"
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeFenceWithoutLanguageTag(t *testing.T) {
	in := "开头```\nraw block\n```结尾"
	got := Sanitize(in)
	assert.NotContains(t, got, "raw block")
}
