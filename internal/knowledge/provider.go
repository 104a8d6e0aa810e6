package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"chatdesk/internal/logger"
	"chatdesk/internal/models"
)

// Document file names inside the knowledge directory.
const (
	docServices    = "services.json"
	docPersonas    = "personas.json"
	docPolicies    = "policies.json"
	docContact     = "contact.json"
	docTemplates   = "response_templates.json"
	docSummaries   = "summaries.json"
	docEmotions    = "emotions.json"
	docNextActions = "next_best_actions.json"
	docFAQ         = "faq_detailed.json"
	docIntents     = "intents.json"
	docEntities    = "entities.json"
	docTransitions = "transitions.json"
)

// Provider loads the knowledge documents once per process lifetime and
// memoizes the result. Concurrent first calls converge on a single load.
type Provider struct {
	dir  string
	once sync.Once
	base *Base
	err  error
}

func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Load returns the memoized knowledge base, loading it on first call.
func (p *Provider) Load() (*Base, error) {
	p.once.Do(func() {
		p.base, p.err = loadAll(p.dir)
		if p.err != nil {
			logger.Error().Err(p.err).Str("dir", p.dir).Msg("knowledge load failed")
			return
		}
		logger.Info().
			Str("dir", p.dir).
			Int("services", len(p.base.Services)).
			Int("policies", len(p.base.Policies)).
			Int("faq_categories", len(p.base.FAQ.Categories)).
			Msg("knowledge loaded")
	})
	return p.base, p.err
}

func loadAll(dir string) (*Base, error) {
	base := &Base{
		Templates:   map[string]ResponseTemplate{},
		Summaries:   map[string]string{},
		NextActions: map[string][]string{},
	}

	// Mandatory documents.
	if err := readDoc(dir, docServices, &base.Services); err != nil {
		return nil, &models.KnowledgeLoadError{Document: docServices, Err: err}
	}
	if err := readDoc(dir, docPersonas, &base.Personas); err != nil {
		return nil, &models.KnowledgeLoadError{Document: docPersonas, Err: err}
	}
	if err := readDoc(dir, docPolicies, &base.Policies); err != nil {
		return nil, &models.KnowledgeLoadError{Document: docPolicies, Err: err}
	}
	if err := readDoc(dir, docContact, &base.Contact); err != nil {
		return nil, &models.KnowledgeLoadError{Document: docContact, Err: err}
	}

	// Optional documents degrade to empty defaults.
	readOptional(dir, docTemplates, &base.Templates)
	readOptional(dir, docSummaries, &base.Summaries)
	readOptional(dir, docEmotions, &base.Emotions)
	readOptional(dir, docNextActions, &base.NextActions)
	readOptional(dir, docFAQ, &base.FAQ)
	readOptional(dir, docIntents, &base.Intents)
	readOptional(dir, docEntities, &base.Entities)
	readOptional(dir, docTransitions, &base.Transitions)

	return base, nil
}

func readDoc(dir, name string, out any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func readOptional(dir, name string, out any) {
	if err := readDoc(dir, name, out); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("document", name).Msg("optional knowledge document unreadable, using empty default")
		}
	}
}

// ---- typed accessors ----
// Every accessor reports presence explicitly; callers never recover from
// missing knowledge ad hoc.

func (b *Base) Template(intent models.Intent) (ResponseTemplate, bool) {
	t, ok := b.Templates[string(intent)]
	return t, ok
}

func (b *Base) NextBestActions(intent models.Intent) ([]string, bool) {
	a, ok := b.NextActions[string(intent)]
	if !ok || len(a) == 0 {
		return nil, false
	}
	return a, true
}

func (b *Base) Summary(serviceType string) (string, bool) {
	s, ok := b.Summaries[serviceType]
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Emotion returns the first emotion template whose keyword appears in the
// message.
func (b *Base) Emotion(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, e := range b.Emotions {
		for _, kw := range e.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return e.Template, true
			}
		}
	}
	return "", false
}

func (b *Base) IntentConfig() (*IntentConfig, bool) {
	if b.Intents == nil || len(b.Intents.Rules) == 0 {
		return nil, false
	}
	return b.Intents, true
}

func (b *Base) EntityTable() (EntityTable, bool) {
	if len(b.Entities) == 0 {
		return nil, false
	}
	return b.Entities, true
}

func (b *Base) TransitionTable() (*TransitionTable, bool) {
	if b.Transitions == nil || len(b.Transitions.Transitions) == 0 {
		return nil, false
	}
	return b.Transitions, true
}

func (b *Base) DetailedFAQ() (FAQDocument, bool) {
	if len(b.FAQ.Categories) == 0 {
		return FAQDocument{}, false
	}
	return b.FAQ, true
}

// ServiceByType finds a catalog entry whose id or name matches the
// service_type slot value.
func (b *Base) ServiceByType(serviceType string) (Service, bool) {
	for _, s := range b.Services {
		if s.ID == serviceType || strings.EqualFold(s.Name, serviceType) {
			return s, true
		}
	}
	return Service{}, false
}
