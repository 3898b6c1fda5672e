package session

import (
	"sync"
	"time"

	"github.com/lidapp/lid/internal/pool"
	"github.com/lidapp/lid/internal/quizgen"
	"github.com/lidapp/lid/internal/stats"
)

// Generator selects the question set for a new session. Matches
// quizgen.GenerateBlended; swappable so tests can assert it runs exactly
// once per session.
type Generator func(seed int64, excluded map[string]bool, general, region []pool.Question, size int) []pool.Question

// Manager starts sessions and guarantees at most one is live: starting
// a new session cancels the previous session's countdown first, so no
// stale ticks outlive an attempt.
type Manager struct {
	engine *stats.Engine

	mu     sync.Mutex
	active *Session

	now func() time.Time
	gen Generator
}

// NewManager creates a manager over the stats engine.
func NewManager(engine *stats.Engine) *Manager {
	return &Manager{
		engine: engine,
		now:    time.Now,
		gen:    quizgen.GenerateBlended,
	}
}

// Start begins a new session. The seed is the current time in
// milliseconds captured once; with ExcludeCorrect set, the correct-id
// snapshot is taken here and never re-read during the session.
func (m *Manager) Start(general, region []pool.Question, cfg Config) *Session {
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}

	// Any still-running countdown from a previous attempt is cancelled
	// before the new one starts.
	m.mu.Lock()
	prev := m.active
	m.mu.Unlock()
	if prev != nil {
		prev.abandon()
	}

	seed := m.now().UnixMilli()
	var excluded map[string]bool
	if cfg.ExcludeCorrect {
		excluded = m.engine.CorrectIDs()
	}

	s := &Session{
		ID:        newSessionID(),
		Seed:      seed,
		Questions: m.gen(seed, excluded, general, region, size),
		engine:    m.engine,
	}
	if cfg.Duration > 0 {
		s.countdown = newCountdown(cfg.Duration, s.Complete)
	}

	m.mu.Lock()
	m.active = s
	m.mu.Unlock()
	return s
}

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
