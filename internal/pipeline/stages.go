package pipeline

import (
	"context"
	"net/http"

	"chatdesk/internal/dialog"
	"chatdesk/internal/faq"
	"chatdesk/internal/generation"
	"chatdesk/internal/knowledge"
	"chatdesk/internal/models"
	"chatdesk/internal/nlu"
	"chatdesk/internal/store"
)

// Deps are the three service singletons the stages draw on.
type Deps struct {
	Provider  *knowledge.Provider
	Store     *store.Store
	Generator *generation.Orchestrator
}

// Stages returns the full turn-processing sequence in execution order. The
// compose stage at the end is terminal by contract.
func Stages(deps *Deps) []Stage {
	return []Stage{
		&initStage{deps},
		&intentStage{deps},
		&entityStage{deps},
		&stateStage{deps},
		&specialIntentStage{deps},
		&criticalFAQStage{deps},
		&generateStage{deps},
		&composeStage{deps},
	}
}

// initStage resolves the memoized knowledge base and loads or creates the
// conversation context. An unknown or expired conversation id silently gets
// a fresh context with a fresh id.
type initStage struct{ deps *Deps }

func (s *initStage) Name() string { return "init" }

func (s *initStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	kb, err := s.deps.Provider.Load()
	if err != nil {
		return nil, err
	}
	pc.KB = kb

	if id := pc.Request.ConversationID; id != "" {
		pc.Conversation = s.deps.Store.Get(id)
	}
	if pc.Conversation == nil {
		pc.Conversation = s.deps.Store.Create("")
	}
	return nil, nil
}

// intentStage classifies the message against the configured intent rules.
type intentStage struct{ deps *Deps }

func (s *intentStage) Name() string { return "intent" }

func (s *intentStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	cfg, _ := pc.KB.IntentConfig()
	pc.Intent = nlu.Classify(pc.Request.Message, nlu.Prior{
		LastIntent: pc.Conversation.LastIntent,
		Slots:      pc.Conversation.Slots,
	}, cfg)
	return nil, nil
}

// entityStage extracts slots and merges them onto the stored ones.
type entityStage struct{ deps *Deps }

func (s *entityStage) Name() string { return "entity" }

func (s *entityStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	table, _ := pc.KB.EntityTable()
	pc.Entities = nlu.ExtractEntities(pc.Request.Message, table)
	pc.MergedEntities = nlu.MergeEntities(pc.Conversation.Slots, pc.Entities)
	return nil, nil
}

// stateStage computes the follow-on dialog state.
type stateStage struct{ deps *Deps }

func (s *stateStage) Name() string { return "state" }

func (s *stateStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	table, _ := pc.KB.TransitionTable()
	hasRequired := dialog.HasRequiredSlots(pc.MergedEntities, table)
	pc.NextState = dialog.Next(pc.Conversation.State, pc.Intent, hasRequired, table)
	return nil, nil
}

// specialIntentStage short-circuits intents that never reach generation.
// The switch covers the whole closed intent set.
type specialIntentStage struct{ deps *Deps }

func (s *specialIntentStage) Name() string { return "special_intent" }

func (s *specialIntentStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	switch pc.Intent {
	case models.IntentHandoff:
		return compose(s.deps, pc, handoffReply(pc.KB), http.StatusOK, true), nil
	case models.IntentGoodbye:
		return compose(s.deps, pc, farewellReply(pc.KB), http.StatusOK, true), nil
	case models.IntentGreeting,
		models.IntentServiceInquiry,
		models.IntentPriceInquiry,
		models.IntentBooking,
		models.IntentLocationInquiry,
		models.IntentComparison,
		models.IntentComplaint,
		models.IntentGeneral:
		return nil, nil
	}
	return nil, nil
}

// criticalFAQStage answers critical policy questions verbatim; generation
// never runs for them.
type criticalFAQStage struct{ deps *Deps }

func (s *criticalFAQStage) Name() string { return "critical_faq" }

func (s *criticalFAQStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	answer, ok := faq.CriticalAnswer(pc.Intent, pc.Request.Message, pc.KB.Policies)
	if !ok {
		return nil, nil
	}
	return compose(s.deps, pc, answer, http.StatusOK, true), nil
}

// generateStage calls the Generation Service. A dependency that was absent
// at init degrades to a 503 with a suggestion-free reply; a timed-out call
// already comes back as the canned apology; other failures propagate.
type generateStage struct{ deps *Deps }

func (s *generateStage) Name() string { return "generate" }

func (s *generateStage) Run(ctx context.Context, pc *Context) (*Outcome, error) {
	if !s.deps.Generator.Available() {
		return compose(s.deps, pc, unavailableReply(pc.KB.Contact), http.StatusServiceUnavailable, false), nil
	}

	var snippets []knowledge.FAQEntry
	if doc, ok := pc.KB.DetailedFAQ(); ok {
		for _, m := range faq.Search(pc.Request.Message, doc) {
			snippets = append(snippets, m.Entry)
		}
	}

	reply, err := s.deps.Generator.Reply(ctx, generation.PromptInput{
		Mode:        pc.Request.Mode,
		Message:     pc.Request.Message,
		Intent:      pc.Intent,
		Entities:    pc.MergedEntities,
		History:     pc.Conversation.History,
		KB:          pc.KB,
		FAQSnippets: snippets,
	}, pc.KB.Contact)
	if err != nil {
		return nil, err
	}
	pc.Reply = reply
	return nil, nil
}

// composeStage is the required terminal stage.
type composeStage struct{ deps *Deps }

func (s *composeStage) Name() string { return "compose" }

func (s *composeStage) Run(_ context.Context, pc *Context) (*Outcome, error) {
	reply := pc.Reply
	if reply == "" {
		reply = fallbackReply(pc.KB)
	}
	return compose(s.deps, pc, reply, http.StatusOK, true), nil
}
