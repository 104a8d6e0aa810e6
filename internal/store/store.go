package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatdesk/internal/logger"
	"chatdesk/internal/metrics"
	"chatdesk/internal/models"
)

const (
	DefaultTTL           = 30 * time.Minute
	DefaultCapacity      = 1000
	DefaultSweepInterval = 5 * time.Minute

	maxHistory = 20
)

// Store is the bounded, TTL-based conversation context map. It is the only
// mutable shared state in the service. All mutation happens inside Update,
// so concurrent turns on the same conversation cannot interleave a
// read-modify-write.
type Store struct {
	mu            sync.Mutex
	contexts      map[string]*models.ConversationContext
	ttl           time.Duration
	capacity      int
	sweepInterval time.Duration
	lastSweep     time.Time

	now func() time.Time // test hook
}

// Option tweaks a Store at construction.
type Option func(*Store)

func WithTTL(ttl time.Duration) Option           { return func(s *Store) { s.ttl = ttl } }
func WithCapacity(n int) Option                  { return func(s *Store) { s.capacity = n } }
func WithSweepInterval(d time.Duration) Option   { return func(s *Store) { s.sweepInterval = d } }
func WithClock(now func() time.Time) Option      { return func(s *Store) { s.now = now } }

func New(opts ...Option) *Store {
	s := &Store{
		contexts:      make(map[string]*models.ConversationContext),
		ttl:           DefaultTTL,
		capacity:      DefaultCapacity,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the context for id, or nil when unknown or expired. Expired
// entries are evicted on the spot.
func (s *Store) Get(id string) *models.ConversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	c, ok := s.contexts[id]
	if !ok {
		return nil
	}
	if s.now().Sub(c.LastActivityAt) > s.ttl {
		delete(s.contexts, id)
		metrics.ActiveContexts.Set(float64(len(s.contexts)))
		return nil
	}
	return snapshot(c)
}

// Create inserts a fresh context. An empty id gets a generated conv_ id.
// At capacity the oldest 10% by last activity are evicted first.
func (s *Store) Create(id string) *models.ConversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maybeSweep()

	if id == "" {
		id = "conv_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if len(s.contexts) >= s.capacity {
		s.evictOldest()
	}

	now := s.now()
	c := &models.ConversationContext{
		ID:             id,
		Slots:          map[string]string{},
		History:        []models.Message{},
		State:          models.StateInit,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	s.contexts[id] = c
	metrics.ActiveContexts.Set(float64(len(s.contexts)))
	return snapshot(c)
}

// Partial is the per-turn mutation applied by Update.
type Partial struct {
	LastIntent       models.Intent
	Slots            map[string]string
	UserMessage      string
	AssistantMessage string
	State            models.State // empty leaves the state unchanged
}

// Update merges a turn into the stored context: new slot keys overwrite,
// existing keys are preserved, history gains at most a user and an assistant
// entry and is trimmed to the most recent 20, and last activity refreshes.
// Unknown ids are a no-op.
func (s *Store) Update(id string, p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contexts[id]
	if !ok {
		return
	}

	now := s.now()
	if p.LastIntent != "" {
		c.LastIntent = p.LastIntent
	}
	for k, v := range p.Slots {
		c.Slots[k] = v
	}
	if p.UserMessage != "" {
		c.History = append(c.History, models.Message{Role: models.RoleUser, Content: p.UserMessage, Timestamp: now})
	}
	if p.AssistantMessage != "" {
		c.History = append(c.History, models.Message{Role: models.RoleAssistant, Content: p.AssistantMessage, Timestamp: now})
	}
	if len(c.History) > maxHistory {
		c.History = c.History[len(c.History)-maxHistory:]
	}
	if p.State != "" {
		c.State = p.State
	}
	c.LastActivityAt = now
}

// Len reports the current number of live contexts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contexts)
}

// evictOldest drops the 10% of contexts with the smallest LastActivityAt.
// Caller holds the lock.
func (s *Store) evictOldest() {
	n := len(s.contexts) / 10
	if n < 1 {
		n = 1
	}
	type entry struct {
		id string
		at time.Time
	}
	all := make([]entry, 0, len(s.contexts))
	for id, c := range s.contexts {
		all = append(all, entry{id, c.LastActivityAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	for i := 0; i < n && i < len(all); i++ {
		delete(s.contexts, all[i].id)
	}
	logger.Debug().Int("evicted", n).Int("remaining", len(s.contexts)).Msg("context store capacity eviction")
	metrics.ActiveContexts.Set(float64(len(s.contexts)))
}

// maybeSweep removes every expired context, at most once per sweep interval.
// Caller holds the lock.
func (s *Store) maybeSweep() {
	now := s.now()
	if now.Sub(s.lastSweep) < s.sweepInterval {
		return
	}
	s.lastSweep = now
	removed := 0
	for id, c := range s.contexts {
		if now.Sub(c.LastActivityAt) > s.ttl {
			delete(s.contexts, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Debug().Int("removed", removed).Msg("context store TTL sweep")
		metrics.ActiveContexts.Set(float64(len(s.contexts)))
	}
}

// snapshot copies a context so callers cannot mutate stored state outside
// Update.
func snapshot(c *models.ConversationContext) *models.ConversationContext {
	out := *c
	out.Slots = make(map[string]string, len(c.Slots))
	for k, v := range c.Slots {
		out.Slots[k] = v
	}
	out.History = append([]models.Message(nil), c.History...)
	return &out
}
