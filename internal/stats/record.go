// Package stats owns the durable progress record and the rules that
// keep it consistent: a question id is correct, incorrect, or untouched,
// never two of these at once.
package stats

import "strconv"

// Record is the persisted progress record, one per installation.
// Map keys are question ids.
type Record struct {
	// Attempted holds every id ever answered. Invariant: exactly the
	// union of CorrectAnswers and IncorrectAnswers keys.
	Attempted map[string]bool `json:"attempted"`

	// CorrectAnswers holds ids whose most recent answer was correct.
	CorrectAnswers map[string]bool `json:"correctAnswers"`

	// IncorrectAnswers maps ids whose most recent answer was wrong to
	// the option index that was chosen.
	IncorrectAnswers map[string]int `json:"incorrectAnswers"`

	// LearnedQuestions maps manually-mastered ids to a unix-ms
	// timestamp. Independent of the answer maps: a question can be both
	// incorrect and learned.
	LearnedQuestions map[string]int64 `json:"learnedQuestions"`

	// FlaggedQuestions maps review-marked ids to a unix-ms timestamp.
	FlaggedQuestions map[string]int64 `json:"flaggedQuestions"`

	// Correct and Wrong mirror the answer map sizes.
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`

	// TotalSessions counts completed or time-expired quiz attempts.
	TotalSessions int `json:"totalSessions"`
}

// NewRecord returns an empty record with all maps allocated.
func NewRecord() Record {
	return Record{
		Attempted:        make(map[string]bool),
		CorrectAnswers:   make(map[string]bool),
		IncorrectAnswers: make(map[string]int),
		LearnedQuestions: make(map[string]int64),
		FlaggedQuestions: make(map[string]int64),
	}
}

// Clone returns a deep copy. Mutations are always expressed as a pure
// function of the previous record, so every mutation starts from a clone.
func (r Record) Clone() Record {
	next := Record{
		Attempted:        make(map[string]bool, len(r.Attempted)),
		CorrectAnswers:   make(map[string]bool, len(r.CorrectAnswers)),
		IncorrectAnswers: make(map[string]int, len(r.IncorrectAnswers)),
		LearnedQuestions: make(map[string]int64, len(r.LearnedQuestions)),
		FlaggedQuestions: make(map[string]int64, len(r.FlaggedQuestions)),
		Correct:          r.Correct,
		Wrong:            r.Wrong,
		TotalSessions:    r.TotalSessions,
	}
	for k, v := range r.Attempted {
		next.Attempted[k] = v
	}
	for k, v := range r.CorrectAnswers {
		next.CorrectAnswers[k] = v
	}
	for k, v := range r.IncorrectAnswers {
		next.IncorrectAnswers[k] = v
	}
	for k, v := range r.LearnedQuestions {
		next.LearnedQuestions[k] = v
	}
	for k, v := range r.FlaggedQuestions {
		next.FlaggedQuestions[k] = v
	}
	return next
}

// Normalized returns a copy with nil maps allocated, so records
// deserialized from older data are safe to mutate.
func (r Record) Normalized() Record {
	if r.Attempted == nil {
		r.Attempted = make(map[string]bool)
	}
	if r.CorrectAnswers == nil {
		r.CorrectAnswers = make(map[string]bool)
	}
	if r.IncorrectAnswers == nil {
		r.IncorrectAnswers = make(map[string]int)
	}
	if r.LearnedQuestions == nil {
		r.LearnedQuestions = make(map[string]int64)
	}
	if r.FlaggedQuestions == nil {
		r.FlaggedQuestions = make(map[string]int64)
	}
	return r
}

// HasActivity reports whether the record contains any answer history.
// A fresh installation short-circuits the migration pass on this.
func (r Record) HasActivity() bool {
	return len(r.Attempted) > 0 ||
		len(r.CorrectAnswers) > 0 ||
		len(r.IncorrectAnswers) > 0 ||
		r.Correct > 0 || r.Wrong > 0
}

// Consistent reports whether the bookkeeping invariants hold: disjoint
// answer maps, attempted equal to their union, counters matching sizes.
func (r Record) Consistent() bool {
	for id := range r.CorrectAnswers {
		if _, dup := r.IncorrectAnswers[id]; dup {
			return false
		}
	}
	if len(r.Attempted) != len(r.CorrectAnswers)+len(r.IncorrectAnswers) {
		return false
	}
	for id := range r.Attempted {
		_, c := r.CorrectAnswers[id]
		_, w := r.IncorrectAnswers[id]
		if !c && !w {
			return false
		}
	}
	return r.Correct == len(r.CorrectAnswers) && r.Wrong == len(r.IncorrectAnswers)
}

// Repair enforces the invariants on a possibly-corrupted record:
// ids in both answer maps stay incorrect (the last known wrong answer
// outranks a stale correct flag), attempted is rebuilt as the union of
// the answer maps, and the counters are recomputed from map sizes.
// Learned/flagged marks and the session counter are never altered.
// Returns the repaired record and whether anything changed.
func Repair(r Record) (Record, bool) {
	next := r.Clone()

	for id := range next.IncorrectAnswers {
		delete(next.CorrectAnswers, id)
	}

	next.Attempted = make(map[string]bool, len(next.CorrectAnswers)+len(next.IncorrectAnswers))
	for id := range next.CorrectAnswers {
		next.Attempted[id] = true
	}
	for id := range next.IncorrectAnswers {
		next.Attempted[id] = true
	}

	next.Correct = len(next.CorrectAnswers)
	next.Wrong = len(next.IncorrectAnswers)

	return next, !equalRecords(r, next)
}

// RegionIDs returns the string form of every id in [lo, hi].
func RegionIDs(lo, hi int) []string {
	if hi < lo {
		return nil
	}
	ids := make([]string, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		ids = append(ids, strconv.Itoa(n))
	}
	return ids
}

func equalRecords(a, b Record) bool {
	if a.Correct != b.Correct || a.Wrong != b.Wrong || a.TotalSessions != b.TotalSessions {
		return false
	}
	if len(a.Attempted) != len(b.Attempted) ||
		len(a.CorrectAnswers) != len(b.CorrectAnswers) ||
		len(a.IncorrectAnswers) != len(b.IncorrectAnswers) {
		return false
	}
	for k := range a.Attempted {
		if !b.Attempted[k] {
			return false
		}
	}
	for k := range a.CorrectAnswers {
		if !b.CorrectAnswers[k] {
			return false
		}
	}
	for k, v := range a.IncorrectAnswers {
		if bv, ok := b.IncorrectAnswers[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
