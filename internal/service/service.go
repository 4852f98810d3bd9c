// Package service holds the survey domain logic.  Each service declares a
// narrow store interface over the repository layer so the logic can be
// exercised against stubs; *repository.Store satisfies all of them.
package service

import (
	"errors"
	"fmt"
	"math"
)

// ErrScoreRequired is returned when a likert question is submitted without a
// score.
var ErrScoreRequired = errors.New("score is required for likert questions")

// ErrScoreOutOfRange is returned when a submitted score falls outside the
// survey's configured likert scale.
var ErrScoreOutOfRange = errors.New("score out of range")

// IncompleteError reports how many required questions are still unanswered
// when a completion attempt is rejected.
type IncompleteError struct {
	Unanswered int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d required questions unanswered", e.Unanswered)
}

// roundPct computes a completion percentage as a round-half-up integer.  An
// empty denominator yields 0: a survey without questions is 0% complete, and
// a user set without users has a 0% completion rate.  Every rate in the
// system goes through this helper so the rounding convention cannot drift
// between endpoints.
func roundPct(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
