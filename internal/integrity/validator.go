package integrity

import (
	"encoding/json"
	"log/slog"

	"github.com/lidapp/lid/internal/storage"
)

// Predicate reports whether a raw stored record is structurally valid.
// A predicate that panics counts as a failed check.
type Predicate func(raw json.RawMessage) bool

// Validate reads key through the adapter and checks it with pred.
// Invalid records are removed from storage and reported as absent, so
// corrupted state never propagates to callers.
func Validate(a *storage.Adapter, key string, pred Predicate, log *slog.Logger) (json.RawMessage, bool) {
	if log == nil {
		log = slog.Default()
	}

	raw, ok := a.Get(key)
	if !ok {
		return nil, false
	}

	if !check(pred, raw) {
		log.Warn("stored record failed validation, discarding", "key", key)
		a.Remove(key)
		return nil, false
	}
	return raw, true
}

// check runs pred, converting a panic into a failed check.
func check(pred Predicate, raw json.RawMessage) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return pred(raw)
}
