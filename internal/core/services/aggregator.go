package services

import (
	"fmt"
	"math"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// Tally counts one vote for optionIndex and refreshes every percentage.
// The session is left untouched when the index is out of range.
//
// Each percentage is rounded on its own, so the options do not always add up
// to exactly 100.
func Tally(session *domain.Session, optionIndex int) error {
	if optionIndex < 0 || optionIndex >= len(session.Options) {
		return fmt.Errorf("option %d of %d: %w", optionIndex, len(session.Options), domain.ErrInvalidOption)
	}

	session.Options[optionIndex].Votes++
	session.TotalVotes++
	recomputePercentages(session)
	return nil
}

func recomputePercentages(session *domain.Session) {
	for i := range session.Options {
		session.Options[i].Percent = percentOf(session.Options[i].Votes, session.TotalVotes)
	}
}

func percentOf(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
