package knowledge

// Knowledge documents are immutable after load. They are shipped as JSON
// files in the knowledge directory; four are mandatory (services, personas,
// policies, contact) and the rest degrade to empty defaults when missing.

// Service is one entry of the service catalog.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Persona describes a customer archetype used to slant recommendations.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Traits      []string `json:"traits,omitempty"`
}

// PolicyEntry is a policy-class question/answer pair. Critical entries must
// be answered verbatim, never paraphrased.
type PolicyEntry struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
	Critical bool     `json:"critical,omitempty"`
}

// Contact is the business contact sheet.
type Contact struct {
	Phone    string   `json:"phone"`
	Email    string   `json:"email,omitempty"`
	Hours    string   `json:"hours,omitempty"`
	Branches []Branch `json:"branches,omitempty"`
}

type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// ResponseTemplate is the per-intent canned answer scaffold.
type ResponseTemplate struct {
	Main          string   `json:"main"`
	Supplementary string   `json:"supplementary,omitempty"`
	NextActions   []string `json:"next_actions,omitempty"`
}

// EmotionTemplate injects a tone hint when one of its keywords appears in
// the user message.
type EmotionTemplate struct {
	Keywords []string `json:"keywords"`
	Template string   `json:"template"`
}

// FAQDocument is the detailed, categorized FAQ tree.
type FAQDocument struct {
	Categories []FAQCategory `json:"categories"`
}

type FAQCategory struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []FAQEntry `json:"questions"`
}

type FAQEntry struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

// IntentConfig drives the classifier. Rules are evaluated in ascending
// priority order; the first matching rule wins.
type IntentConfig struct {
	DefaultIntent   string       `json:"default_intent"`
	ShortMessageMax int          `json:"short_message_max"`
	Rules           []IntentRule `json:"rules"`
}

type IntentRule struct {
	Intent          string   `json:"intent"`
	Priority        int      `json:"priority"`
	Keywords        []string `json:"keywords,omitempty"`
	ContextKeywords []string `json:"context_keywords,omitempty"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
	MaxLength       int      `json:"max_length,omitempty"` // rune count; 0 disables
}

// EntityPattern maps keyword hits onto a slot value. Patterns are tried in
// table order; the first hit wins the slot.
type EntityPattern struct {
	Value    string   `json:"value"`
	Keywords []string `json:"keywords"`
}

// EntityTable maps slot name to its ordered pattern list.
type EntityTable map[string][]EntityPattern

// TransitionTable drives the dialog state machine. Keys of the inner map are
// an intent name, a pipe-delimited intent pattern, "hasRequiredSlots", or
// "default".
type TransitionTable struct {
	Transitions   map[string]map[string]string `json:"transitions"`
	RequiredSlots *RequiredSlotsSpec           `json:"required_slots,omitempty"`
}

// RequiredSlotsSpec is an explicit any/all field check overriding the
// default "service_type or use_case present" rule.
type RequiredSlotsSpec struct {
	Mode  string   `json:"mode"` // any or all
	Slots []string `json:"slots"`
}

// Base is the full loaded knowledge set.
type Base struct {
	Services    []Service
	Personas    []Persona
	Policies    []PolicyEntry
	Contact     Contact
	Templates   map[string]ResponseTemplate
	Summaries   map[string]string
	Emotions    []EmotionTemplate
	NextActions map[string][]string
	FAQ         FAQDocument
	Intents     *IntentConfig
	Entities    EntityTable
	Transitions *TransitionTable
}
