// Package pool loads the general and state-specific question pools.
package pool

import "strconv"

// State-specific questions always occupy this id range, regardless of
// which state is selected. Switching state therefore resets exactly
// these ids in the progress record.
const (
	RegionIDStart = 301
	RegionIDEnd   = 310
)

// Question is a single multiple-choice question. Immutable once loaded.
type Question struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Image       string   `json:"image,omitempty"`
}

// Valid reports whether a fetched record is usable: stable id, exactly
// four options, and an answer index pointing at one of them.
func (q Question) Valid() bool {
	return q.ID != "" &&
		len(q.Options) == 4 &&
		q.AnswerIndex >= 0 && q.AnswerIndex < 4
}

// IsRegionID reports whether id falls in the state-specific range.
func IsRegionID(id string) bool {
	n, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	return n >= RegionIDStart && n <= RegionIDEnd
}
