package models

import "time"

// Intent is the classified purpose of a user message. The set is closed:
// code that branches on an Intent must handle every constant below.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentServiceInquiry  Intent = "service_inquiry"
	IntentPriceInquiry    Intent = "price_inquiry"
	IntentBooking         Intent = "booking"
	IntentLocationInquiry Intent = "location_inquiry"
	IntentComparison      Intent = "comparison"
	IntentComplaint       Intent = "complaint"
	IntentHandoff         Intent = "handoff_to_human"
	IntentGoodbye         Intent = "goodbye"
	IntentGeneral         Intent = "general_inquiry"
)

// KnownIntents lists every member of the closed intent set.
var KnownIntents = []Intent{
	IntentGreeting,
	IntentServiceInquiry,
	IntentPriceInquiry,
	IntentBooking,
	IntentLocationInquiry,
	IntentComparison,
	IntentComplaint,
	IntentHandoff,
	IntentGoodbye,
	IntentGeneral,
}

// ParseIntent maps a configured intent name onto the closed set. Unknown
// names fall back to general_inquiry so a bad config row cannot widen the set.
func ParseIntent(name string) Intent {
	for _, it := range KnownIntents {
		if string(it) == name {
			return it
		}
	}
	return IntentGeneral
}

// State is a conversation's position in the dialog state machine.
type State string

const (
	StateInit           State = "INIT"
	StateCollectingInfo State = "COLLECTING_INFO"
	StateRecommending   State = "RECOMMENDING"
	StateFollowUp       State = "FOLLOW_UP"
	StateComplete       State = "COMPLETE"
)

// Message is one turn of conversation history.
type Message struct {
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationContext is the per-conversation state owned by the store.
// It is created on the first turn, mutated every turn, and only ever
// removed by TTL expiry or capacity eviction.
type ConversationContext struct {
	ID             string            `json:"id"`
	LastIntent     Intent            `json:"last_intent,omitempty"`
	Slots          map[string]string `json:"slots"`
	History        []Message         `json:"history"`
	State          State             `json:"state"`
	CreatedAt      time.Time         `json:"created_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
}

// Slot names the extractor can fill.
const (
	SlotServiceType   = "service_type"
	SlotUseCase       = "use_case"
	SlotPersona       = "persona"
	SlotBranch        = "branch"
	SlotBookingAction = "booking_action"
)

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message        string `json:"message"`
	Mode           string `json:"mode,omitempty"`
	PageType       string `json:"pageType,omitempty"`
	Source         string `json:"source,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Operating modes for prompt construction.
const (
	ModeAuto         = "auto"
	ModeDecisionRec  = "decision_recommendation"
	ModeFAQFlowPrice = "faq_flow_price"
)

// UpdatedContext is the context snapshot echoed back to the widget.
type UpdatedContext struct {
	LastIntent string            `json:"last_intent"`
	Slots      map[string]string `json:"slots"`
}

// ChatResponse is the POST /chat reply body.
type ChatResponse struct {
	Reply                 string         `json:"reply"`
	Intent                Intent         `json:"intent"`
	ConversationID        string         `json:"conversationId"`
	UpdatedContext        UpdatedContext `json:"updatedContext"`
	SuggestedQuickReplies []string       `json:"suggestedQuickReplies,omitempty"`
}

// FAQMenuResponse is the GET /faq-menu body.
type FAQMenuResponse struct {
	Categories []FAQMenuCategory `json:"categories"`
}

type FAQMenuCategory struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Questions []FAQMenuQuestion `json:"questions"`
}

type FAQMenuQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}
