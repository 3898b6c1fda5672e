// Package session owns the quiz session lifecycle: one fixed question
// set selected at start, answers funneled into the stats engine, and an
// optional countdown that ends the attempt when it expires.
package session

import (
	"sync"
	"time"

	"github.com/lidapp/lid/internal/pool"
	"github.com/lidapp/lid/internal/stats"
)

// DefaultSize is the number of questions in a full test session:
// 30 general plus the 3-question state quota.
const DefaultSize = 33

// Config describes a session about to start.
type Config struct {
	// Size is the question count, DefaultSize when zero.
	Size int
	// Duration is the countdown length; zero means untimed.
	Duration time.Duration
	// ExcludeCorrect removes already-correct questions from selection.
	// The exclusion set is snapshotted at start; toggling the setting or
	// answering questions mid-session never changes the selected set.
	ExcludeCorrect bool
}

// Session is one quiz attempt. The question list is fixed at creation
// and never regenerated; a new list requires a new session.
type Session struct {
	ID        string
	Seed      int64
	Questions []pool.Question

	engine *stats.Engine

	mu        sync.Mutex
	index     int
	correct   int
	completed bool
	finish    sync.Once
	countdown *countdown
}

// Current returns the question awaiting an answer, false when the
// session is exhausted.
func (s *Session) Current() (pool.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || s.index >= len(s.Questions) {
		return pool.Question{}, false
	}
	return s.Questions[s.index], true
}

// Answer records the chosen option for the current question and
// advances. Returns whether the answer was correct and whether a
// question was actually consumed.
func (s *Session) Answer(chosen int) (correct bool, ok bool) {
	s.mu.Lock()
	if s.completed || s.index >= len(s.Questions) {
		s.mu.Unlock()
		return false, false
	}
	q := s.Questions[s.index]
	s.index++
	correct = chosen == q.AnswerIndex
	if correct {
		s.correct++
	}
	last := s.index >= len(s.Questions)
	s.mu.Unlock()

	s.engine.RecordAnswer(q.ID, chosen, correct)

	if last {
		s.Complete()
	}
	return correct, true
}

// Answered returns how many questions have been answered and how many
// of those were correct, for this session only.
func (s *Session) Answered() (answered, correct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, s.correct
}

// Complete ends the attempt: the countdown stops and the session
// counter is incremented exactly once, whether the session finished by
// answering every question, by expiry, or by an explicit call.
func (s *Session) Complete() {
	s.finish.Do(func() {
		s.mu.Lock()
		s.completed = true
		cd := s.countdown
		s.mu.Unlock()

		if cd != nil {
			cd.stop()
		}
		s.engine.CompleteSession()
	})
}

// Completed reports whether the attempt has ended.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Remaining returns the countdown time left; zero for untimed sessions.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd == nil {
		return 0
	}
	return cd.remainingTime()
}

// abandon stops the countdown without counting the attempt as a
// completed session. Used when a new session replaces this one.
func (s *Session) abandon() {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd != nil {
		cd.stop()
	}
}
