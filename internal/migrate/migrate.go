// Package migrate runs the one-time pass that seeds the durable store
// from legacy jar records and repairs corrupted progress bookkeeping.
package migrate

import (
	"encoding/json"
	"log/slog"

	"github.com/lidapp/lid/internal/cell"
	"github.com/lidapp/lid/internal/stats"
	"github.com/lidapp/lid/internal/storage"
)

// State is the migration lifecycle. Running is never persisted: a crash
// mid-pass re-runs from NotStarted, which is safe because the repair is
// idempotent.
type State int

const (
	NotStarted State = iota
	Running
	Completed
)

// Result reports what a pass did.
type Result struct {
	// Skipped is true when the completion flag short-circuited the pass.
	Skipped bool
	// KeysCopied counts legacy jar records copied into the durable tier.
	KeysCopied int
	// StatsRepaired is true when the progress record needed repair.
	StatsRepaired bool
}

// Changed reports whether the pass altered any stored state.
func (r Result) Changed() bool {
	return r.KeysCopied > 0 || r.StatsRepaired
}

// Pass copies legacy records and repairs the progress record. It must
// run before any cell reads the durable store.
type Pass struct {
	adapter   *storage.Adapter
	durable   storage.Tier
	jar       storage.Tier
	completed *cell.Cell[bool]
	log       *slog.Logger
	state     State
}

// New builds a pass. durable and jar are the concrete tiers the legacy
// copy moves records between; completed is the persisted completion flag.
func New(adapter *storage.Adapter, durable, jar storage.Tier, completed *cell.Cell[bool], log *slog.Logger) *Pass {
	if log == nil {
		log = slog.Default()
	}
	return &Pass{
		adapter:   adapter,
		durable:   durable,
		jar:       jar,
		completed: completed,
		log:       log,
		state:     NotStarted,
	}
}

// State returns the current lifecycle state.
func (p *Pass) State() State {
	return p.state
}

// Run executes the pass once. Subsequent runs (and runs on an
// installation that already completed it) are no-ops.
func (p *Pass) Run() Result {
	if p.state == Completed || p.completed.Read() {
		p.state = Completed
		return Result{Skipped: true}
	}
	p.state = Running

	var res Result
	res.KeysCopied = p.copyLegacyKeys()
	res.StatsRepaired = p.repairStats()

	p.completed.Write(true)
	p.state = Completed

	if res.Changed() {
		p.log.Info("migration pass completed",
			"keysCopied", res.KeysCopied, "statsRepaired", res.StatsRepaired)
	}
	return res
}

// copyLegacyKeys copies jar-era records into the durable tier verbatim.
// A durable entry always wins over a legacy one; validation happens
// lazily the first time a cell reads the key.
func (p *Pass) copyLegacyKeys() int {
	copied := 0
	for _, key := range storage.LegacyKeys {
		if _, ok := p.durable.Get(key); ok {
			continue
		}
		raw, ok := p.jar.Get(key)
		if !ok {
			continue
		}
		if err := p.durable.Set(key, raw); err != nil {
			p.log.Warn("legacy key copy failed", "key", key, "err", err)
			continue
		}
		copied++
	}
	return copied
}

// repairStats enforces the answer-map invariants on the stored progress
// record. A record with no activity is left untouched; learned/flagged
// marks and the session counter survive any repair.
func (p *Pass) repairStats() bool {
	raw, ok := p.adapter.Get(storage.KeyStats)
	if !ok {
		return false
	}

	var rec stats.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// Unreadable records are wiped by the integrity layer on first
		// cell read, not here.
		return false
	}
	rec = rec.Normalized()

	if !rec.HasActivity() {
		return false
	}

	repaired, changed := stats.Repair(rec)
	if !changed {
		return false
	}

	if !p.adapter.Set(storage.KeyStats, repaired, true) {
		p.log.Warn("repaired stats record could not be persisted")
		return false
	}
	return true
}
