package stats

import (
	"log/slog"
	"time"

	"github.com/lidapp/lid/internal/cell"
)

// Engine funnels every progress mutation through named operations so the
// bookkeeping invariants are enforced in one place. Each operation is a
// single functional update of the backing cell: no intermediate
// inconsistent state is ever observable.
type Engine struct {
	cell *cell.Cell[Record]
	log  *slog.Logger
	now  func() time.Time
}

// NewEngine creates an engine over the given record cell.
func NewEngine(c *cell.Cell[Record], log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cell: c, log: log, now: time.Now}
}

// Snapshot returns the current record.
func (e *Engine) Snapshot() Record {
	return e.cell.Read()
}

// CorrectIDs returns the set of ids currently answered correct, for use
// as a generator exclusion set.
func (e *Engine) CorrectIDs() map[string]bool {
	r := e.cell.Read()
	ids := make(map[string]bool, len(r.CorrectAnswers))
	for id := range r.CorrectAnswers {
		ids[id] = true
	}
	return ids
}

// RecordAnswer registers an answer for a question. A first answer
// inserts into the matching map; a correctness flip moves the id between
// maps in the same update; a repeated wrong answer with a different
// option just updates the stored choice. Counters always equal the map
// sizes afterwards.
func (e *Engine) RecordAnswer(id string, chosen int, correct bool) {
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()

		if correct {
			delete(next.IncorrectAnswers, id)
			next.CorrectAnswers[id] = true
		} else {
			delete(next.CorrectAnswers, id)
			next.IncorrectAnswers[id] = chosen
		}
		next.Attempted[id] = true

		next.Correct = len(next.CorrectAnswers)
		next.Wrong = len(next.IncorrectAnswers)
		return next
	})
}

// ToggleFlag marks or unmarks a question for later review. Independent
// of the answer maps.
func (e *Engine) ToggleFlag(id string) {
	ts := e.now().UnixMilli()
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()
		if _, ok := next.FlaggedQuestions[id]; ok {
			delete(next.FlaggedQuestions, id)
		} else {
			next.FlaggedQuestions[id] = ts
		}
		return next
	})
}

// MarkLearned records a question as manually mastered. A question can be
// incorrect and learned at the same time; that is the intended state for
// "got it wrong before, studied it since".
func (e *Engine) MarkLearned(id string) {
	ts := e.now().UnixMilli()
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()
		next.LearnedQuestions[id] = ts
		return next
	})
}

// UnmarkLearned removes the learned mark.
func (e *Engine) UnmarkLearned(id string) {
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()
		delete(next.LearnedQuestions, id)
		return next
	})
}

// ResetRegionProgress removes every id in [lo, hi] from the attempted
// and answer maps, recomputing each counter from its own map so neither
// can go negative or double-decrement. Learned and flagged marks are
// left to the caller.
func (e *Engine) ResetRegionProgress(lo, hi int) {
	ids := RegionIDs(lo, hi)
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()
		for _, id := range ids {
			delete(next.Attempted, id)
			delete(next.CorrectAnswers, id)
			delete(next.IncorrectAnswers, id)
		}
		next.Correct = len(next.CorrectAnswers)
		next.Wrong = len(next.IncorrectAnswers)
		return next
	})
}

// CompleteSession increments the session counter. Called exactly once
// per completed or time-expired quiz attempt.
func (e *Engine) CompleteSession() {
	e.cell.Update(func(prev Record) Record {
		next := prev.Normalized().Clone()
		next.TotalSessions++
		return next
	})
}

// SelfCheck runs the invariant repair defensively and reports whether
// drift was found. Rapid queued updates cannot drift a record built from
// functional updates, but the check guarantees convergence anyway.
func (e *Engine) SelfCheck() bool {
	drifted := false
	e.cell.Update(func(prev Record) Record {
		repaired, changed := Repair(prev.Normalized())
		drifted = changed
		return repaired
	})
	if drifted {
		e.log.Warn("progress record drifted, repaired")
	}
	return drifted
}
