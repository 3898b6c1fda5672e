// Package quizgen selects the question set for a quiz session. The same
// seed always yields the same ordered set, so sessions are reproducible.
package quizgen

import (
	"math/rand/v2"

	"github.com/lidapp/lid/internal/pool"
)

// RegionQuota is the fixed number of state-specific questions blended
// into a session.
const RegionQuota = 3

// mulberry32 is a 32-bit mixing PRNG. The exact bit operations are part
// of the reproducibility contract: a persisted seed must select the same
// questions on every run.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed int64) *mulberry32 {
	return &mulberry32{state: uint32(seed)}
}

// next returns a float in [0, 1).
func (m *mulberry32) next() float64 {
	m.state += 0x6D2B79F5
	x := m.state
	x ^= x >> 15
	x *= x | 1
	x ^= x + (x^(x>>7))*(x|61)
	return float64(x^(x>>14)) / 4294967296.0
}

// Generate returns up to size questions from p, excluding ids in
// excluded, shuffled deterministically from seed.
func Generate(seed int64, excluded map[string]bool, p []pool.Question, size int) []pool.Question {
	filtered := filter(p, excluded)

	rng := newMulberry32(seed)
	for i := len(filtered) - 1; i >= 1; i-- {
		j := int(rng.next() * float64(i+1))
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}

	if size < len(filtered) {
		filtered = filtered[:size]
	}
	return filtered
}

// GenerateBlended builds a session set: size - 3 general questions
// chosen deterministically from seed, plus up to 3 state questions drawn
// uniformly from the state pool. State questions are not part of the
// reproducibility contract, so they use an unseeded source. When the
// state pool has fewer than 3 eligible questions the general portion
// expands to fill the shortfall.
func GenerateBlended(seed int64, excluded map[string]bool, general, region []pool.Question, size int) []pool.Question {
	eligible := filter(region, excluded)

	quota := RegionQuota
	if len(eligible) < quota {
		quota = len(eligible)
	}
	if quota > size {
		quota = size
	}

	out := Generate(seed, excluded, general, size-quota)

	// Partial unseeded shuffle: draw quota questions without replacement.
	for i := 0; i < quota; i++ {
		j := i + rand.IntN(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	out = append(out, eligible[:quota]...)

	return out
}

// filter copies p without the excluded ids.
func filter(p []pool.Question, excluded map[string]bool) []pool.Question {
	out := make([]pool.Question, 0, len(p))
	for _, q := range p {
		if excluded[q.ID] {
			continue
		}
		out = append(out, q)
	}
	return out
}
