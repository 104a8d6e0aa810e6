package pipeline

import (
	"fmt"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
	"chatdesk/internal/store"
)

// staticQuickReplies is the last-resort chip set when neither the NBA list
// nor a response template provides one.
var staticQuickReplies = []string{"查看服务项目", "咨询价格", "联系人工客服"}

// compose persists the turn into the context store and builds the wire
// response. Quick replies are dropped on the degraded (503) path.
func compose(deps *Deps, pc *Context, reply string, status int, withQuickReplies bool) *Outcome {
	deps.Store.Update(pc.Conversation.ID, store.Partial{
		LastIntent:       pc.Intent,
		Slots:            pc.Entities,
		UserMessage:      pc.Request.Message,
		AssistantMessage: reply,
		State:            pc.NextState,
	})

	resp := &models.ChatResponse{
		Reply:          reply,
		Intent:         pc.Intent,
		ConversationID: pc.Conversation.ID,
		UpdatedContext: models.UpdatedContext{
			LastIntent: string(pc.Intent),
			Slots:      pc.MergedEntities,
		},
	}
	if withQuickReplies {
		resp.SuggestedQuickReplies = quickReplies(pc.KB, pc.Intent)
	}
	return &Outcome{Status: status, Response: resp}
}

// quickReplies selects suggestion chips by priority: the per-intent NBA
// list, then the response template's next actions, then the static
// fallback.
func quickReplies(kb *knowledge.Base, intent models.Intent) []string {
	if actions, ok := kb.NextBestActions(intent); ok {
		return actions
	}
	if tpl, ok := kb.Template(intent); ok && len(tpl.NextActions) > 0 {
		return tpl.NextActions
	}
	return staticQuickReplies
}

// handoffReply answers a human-handoff request with the contact sheet.
func handoffReply(kb *knowledge.Base) string {
	if tpl, ok := kb.Template(models.IntentHandoff); ok {
		return tpl.Main
	}
	c := kb.Contact
	if c.Phone != "" {
		return fmt.Sprintf("好的，马上为您转接人工顾问。您也可以直接致电 %s（%s），我们会尽快为您服务。", c.Phone, c.Hours)
	}
	return "好的，马上为您转接人工顾问，请稍候。"
}

func farewellReply(kb *knowledge.Base) string {
	if tpl, ok := kb.Template(models.IntentGoodbye); ok {
		return tpl.Main
	}
	return "感谢您的咨询，期待再次为您服务，再见！"
}

// unavailableReply is the degraded answer when the generation dependency
// was missing at init.
func unavailableReply(c knowledge.Contact) string {
	if c.Phone != "" {
		return fmt.Sprintf("很抱歉，智能助手暂时不可用。您可以直接致电 %s，我们的顾问会为您解答。", c.Phone)
	}
	return "很抱歉，智能助手暂时不可用，请稍后再试或联系我们的人工顾问。"
}

// fallbackReply keeps the compose stage terminal even when no upstream
// stage produced text.
func fallbackReply(kb *knowledge.Base) string {
	if tpl, ok := kb.Template(models.IntentGeneral); ok {
		return tpl.Main
	}
	return "感谢您的咨询！请告诉我您想了解的服务或问题，我会尽力帮您解答。"
}
