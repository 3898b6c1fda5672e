package storage

import "sync"

// SessionTier is the session-scoped tier: an in-process map that lives
// exactly as long as the program run, mirroring a store that is cleared
// when the session ends.
type SessionTier struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSessionTier creates an empty session tier.
func NewSessionTier() *SessionTier {
	return &SessionTier{values: make(map[string]string)}
}

func (t *SessionTier) Name() string { return "session" }

func (t *SessionTier) Probe() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values != nil
}

func (t *SessionTier) Set(key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
	return nil
}

func (t *SessionTier) Get(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[key]
	return v, ok
}

func (t *SessionTier) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, key)
	return nil
}
