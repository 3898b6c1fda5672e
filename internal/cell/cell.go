// Package cell provides a reactive persisted value: read through the
// storage adapter at construction, validated, written back on every
// change. It is the unit the rest of the app observes and mutates.
package cell

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"sync"

	"github.com/lidapp/lid/internal/integrity"
	"github.com/lidapp/lid/internal/storage"
)

// Cell is a value of type T backed by the storage adapter. With enabled
// false it degrades to a plain in-memory cell. The in-memory value is
// authoritative for the current run; persistence failures are logged and
// never surfaced.
type Cell[T any] struct {
	mu        sync.Mutex
	adapter   *storage.Adapter
	key       string
	enabled   bool
	validator func(T) bool
	log       *slog.Logger

	value  T
	loaded T    // value read at construction, for first-write suppression
	wrote  bool // whether any write cycle has run yet
}

// New constructs a cell for key, seeding it from storage when a record
// is present and valid, and from initial otherwise. validator may be nil.
func New[T any](a *storage.Adapter, key string, initial T, enabled bool, validator func(T) bool, log *slog.Logger) *Cell[T] {
	if log == nil {
		log = slog.Default()
	}

	c := &Cell[T]{
		adapter:   a,
		key:       key,
		enabled:   enabled,
		validator: validator,
		log:       log,
		value:     initial,
		loaded:    initial,
	}
	if enabled {
		if v, ok := c.load(); ok {
			c.value = v
			c.loaded = v
		}
	}
	return c
}

// Read returns the current value.
func (c *Cell[T]) Read() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Write replaces the value. Equivalent to Update with a constant.
func (c *Cell[T]) Write(v T) {
	c.Update(func(T) T { return v })
}

// Update applies fn to the previous value and stores the result. All
// mutations go through the previous value, never a caller-captured
// snapshot, so queued updates compose instead of overwriting each other.
// A result that fails the validator is rejected and the previous value
// kept.
func (c *Cell[T]) Update(fn func(prev T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := fn(c.value)
	if c.validator != nil && !c.validator(next) {
		c.log.Warn("cell write rejected by validator", "key", c.key)
		return
	}
	c.value = next

	if !c.enabled {
		return
	}

	// The first write cycle after construction re-persisting the value
	// just read is suppressed.
	first := !c.wrote
	c.wrote = true
	if first && reflect.DeepEqual(next, c.loaded) {
		return
	}

	if !c.adapter.Set(c.key, next, true) {
		c.log.Warn("cell persist failed", "key", c.key)
	}
}

// Resync re-reads from storage and overwrites the in-memory value, for
// picking up changes made by another process. It never writes back.
func (c *Cell[T]) Resync() {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.load(); ok {
		c.value = v
		c.loaded = v
	}
}

// load reads and validates the stored record. Invalid records are wiped
// by the integrity layer and reported as absent.
func (c *Cell[T]) load() (T, bool) {
	var zero T

	pred := func(raw json.RawMessage) bool {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
		return c.validator == nil || c.validator(v)
	}

	raw, ok := integrity.Validate(c.adapter, c.key, pred, c.log)
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, false
	}
	return v, true
}
