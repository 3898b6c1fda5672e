package storage

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"
)

// maxJarValueSize caps a single jar entry, matching the size limits of
// the cookie-era records this tier emulates.
const maxJarValueSize = 4096

// defaultJarTTL is roughly 100 years; jar entries without an explicit
// expiry effectively never expire.
const defaultJarTTL = 100 * 365 * 24 * time.Hour

type jarEntry struct {
	// Value is stored URL-encoded, as the legacy cookie records were.
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

// JarTier is the last-resort tier: a small file of expiring name/value
// entries. It also holds any legacy records left behind by older
// installations, which the migration pass copies into the durable tier.
type JarTier struct {
	mu      sync.Mutex
	path    string
	entries map[string]jarEntry
	now     func() time.Time
}

// OpenJar loads the jar file at path, creating an empty jar if the file
// does not exist. A corrupt jar file is treated as empty.
func OpenJar(path string) (*JarTier, error) {
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("ensure jar dir: %w", err)
	}

	t := &JarTier{
		path:    path,
		entries: make(map[string]jarEntry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read jar file: %w", err)
	}
	// A jar that can't be parsed starts over empty rather than blocking
	// every read behind a parse error.
	_ = json.Unmarshal(data, &t.entries)
	return t, nil
}

func (t *JarTier) Name() string { return "jar" }

func (t *JarTier) Probe() bool {
	if err := t.Set(probeKey, "1"); err != nil {
		return false
	}
	return t.Remove(probeKey) == nil
}

func (t *JarTier) Set(key, value string) error {
	return t.SetWithExpiry(key, value, t.now().Add(defaultJarTTL))
}

// SetWithExpiry stores a value with an explicit expiry time.
func (t *JarTier) SetWithExpiry(key, value string, expires time.Time) error {
	encoded := url.QueryEscape(value)
	if len(encoded) > maxJarValueSize {
		return fmt.Errorf("jar set %q: value exceeds %d bytes", key, maxJarValueSize)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = jarEntry{Value: encoded, Expires: expires}
	return t.flushLocked()
}

func (t *JarTier) Get(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return "", false
	}
	if t.now().After(e.Expires) {
		delete(t.entries, key)
		_ = t.flushLocked()
		return "", false
	}
	decoded, err := url.QueryUnescape(e.Value)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func (t *JarTier) Remove(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[key]; !ok {
		return nil
	}
	delete(t.entries, key)
	return t.flushLocked()
}

// flushLocked writes the jar to disk. Callers must hold t.mu.
func (t *JarTier) flushLocked() error {
	data, err := json.Marshal(t.entries)
	if err != nil {
		return fmt.Errorf("marshal jar: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write jar file: %w", err)
	}
	return nil
}
