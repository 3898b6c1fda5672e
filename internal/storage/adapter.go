package storage

import (
	"encoding/json"
	"log/slog"

	"golang.org/x/mod/semver"
)

// Adapter provides uniform get/set/remove over a ranked list of tiers.
// Writes prefer the best available tier and fall back in rank order;
// reads probe every tier so records written before a tier became
// unavailable are still found. No tier failure ever escapes as an error.
type Adapter struct {
	tiers     []Tier
	preferred int
	version   string
	log       *slog.Logger
}

// NewAdapter builds an adapter over tiers in preference order (durable
// first). version is the app version recorded in the version marker key.
func NewAdapter(version string, log *slog.Logger, tiers ...Tier) *Adapter {
	if log == nil {
		log = slog.Default()
	}

	a := &Adapter{tiers: tiers, preferred: len(tiers), version: version, log: log}
	for i, t := range tiers {
		if t.Probe() {
			a.preferred = i
			break
		}
		log.Warn("storage tier unavailable", "tier", t.Name())
	}
	return a
}

// Set serializes value as JSON and writes it to the best available tier,
// falling back down the ranking on failure. Returns true as soon as any
// tier succeeds. When enabled is false nothing is written.
func (a *Adapter) Set(key string, value any, enabled bool) bool {
	if !enabled {
		return false
	}

	data, err := json.Marshal(value)
	if err != nil {
		a.log.Warn("storage set: marshal failed", "key", key, "err", err)
		return false
	}

	for i := a.preferred; i < len(a.tiers); i++ {
		t := a.tiers[i]
		if err := t.Set(key, string(data)); err != nil {
			a.log.Warn("storage set failed, falling back", "tier", t.Name(), "key", key, "err", err)
			continue
		}
		if t.Name() != "jar" && key != KeyVersion {
			if err := t.Set(KeyVersion, a.version); err != nil {
				a.log.Warn("version marker write failed", "tier", t.Name(), "err", err)
			}
		}
		return true
	}
	return false
}

// Get returns the first value found for key, probing every tier in rank
// order regardless of which tier the write landed on.
func (a *Adapter) Get(key string) (json.RawMessage, bool) {
	for _, t := range a.tiers {
		if v, ok := t.Get(key); ok {
			return json.RawMessage(v), true
		}
	}
	return nil, false
}

// Remove deletes key from every tier, best-effort.
func (a *Adapter) Remove(key string) {
	for _, t := range a.tiers {
		if err := t.Remove(key); err != nil {
			a.log.Warn("storage remove failed", "tier", t.Name(), "key", key, "err", err)
		}
	}
}

// Version returns the app version this adapter stamps into the marker key.
func (a *Adapter) Version() string {
	return a.version
}

// StoredVersion reads the version marker, returning "" when absent.
func (a *Adapter) StoredVersion() string {
	for _, t := range a.tiers {
		if v, ok := t.Get(KeyVersion); ok {
			return v
		}
	}
	return ""
}

// CheckVersion compares the stored version marker against the running
// version and logs when the data dir was written by a newer build.
func (a *Adapter) CheckVersion() {
	stored := a.StoredVersion()
	if stored == "" {
		return
	}
	if semver.Compare("v"+stored, "v"+a.version) > 0 {
		a.log.Warn("data written by newer version", "stored", stored, "running", a.version)
	}
}
