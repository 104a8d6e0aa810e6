package generation

import (
	"fmt"
	"sort"
	"strings"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
)

// historyTail bounds how much conversation history enters the prompt.
const historyTail = 5

// PromptInput is everything the prompt builder may draw on for one turn.
type PromptInput struct {
	Mode     string
	Message  string
	Intent   models.Intent
	Entities map[string]string
	History  []models.Message
	KB       *knowledge.Base

	// FAQSnippets are the scored-search results for the message, included
	// as reference question/answer pairs.
	FAQSnippets []knowledge.FAQEntry
}

// BuildPrompt assembles the structured request prompt: operating mode,
// classified intent, merged entities, recent history, and knowledge snippets
// selected by intent.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	mode := in.Mode
	if mode == "" {
		mode = models.ModeAuto
	}
	fmt.Fprintf(&b, "[工作模式] %s\n", mode)
	fmt.Fprintf(&b, "[识别意图] %s\n", in.Intent)

	if len(in.Entities) > 0 {
		b.WriteString("[已收集信息]\n")
		for _, k := range sortedKeys(in.Entities) {
			fmt.Fprintf(&b, "- %s: %s\n", k, in.Entities[k])
		}
	}

	if tail := tailOf(in.History, historyTail); len(tail) > 0 {
		b.WriteString("[最近对话]\n")
		for _, msg := range tail {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
	}

	writeKnowledge(&b, in)

	fmt.Fprintf(&b, "[用户消息]\n%s\n", in.Message)
	return b.String()
}

// writeKnowledge appends the intent-selected reference material.
func writeKnowledge(b *strings.Builder, in PromptInput) {
	kb := in.KB
	if kb == nil {
		return
	}

	if in.Intent == models.IntentPriceInquiry || in.Intent == models.IntentComparison {
		b.WriteString("[服务价目]\n")
		for _, s := range kb.Services {
			fmt.Fprintf(b, "- %s（%s）: %s, %s\n", s.Name, s.Category, s.Price, s.Duration)
		}
	}

	if tpl, ok := kb.Template(in.Intent); ok {
		fmt.Fprintf(b, "[参考回答]\n%s\n", tpl.Main)
		if tpl.Supplementary != "" {
			fmt.Fprintf(b, "补充：%s\n", tpl.Supplementary)
		}
	}

	if tone, ok := kb.Emotion(in.Message); ok {
		fmt.Fprintf(b, "[语气提示]\n%s\n", tone)
	}

	if in.Intent == models.IntentLocationInquiry {
		c := kb.Contact
		fmt.Fprintf(b, "[联系方式]\n电话：%s 营业时间：%s\n", c.Phone, c.Hours)
		for _, br := range c.Branches {
			fmt.Fprintf(b, "- %s：%s %s\n", br.Name, br.Address, br.Phone)
		}
	}

	if serviceType := in.Entities[models.SlotServiceType]; serviceType != "" {
		if summary, ok := kb.Summary(serviceType); ok {
			fmt.Fprintf(b, "[服务介绍]\n%s\n", summary)
		}
	}

	if len(in.FAQSnippets) > 0 {
		b.WriteString("[相关问答]\n")
		for _, entry := range in.FAQSnippets {
			fmt.Fprintf(b, "问：%s\n答：%s\n", entry.Question, entry.Answer)
		}
	}
}

func tailOf(history []models.Message, n int) []models.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
