package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSnapshot(t *testing.T) {
	endsAt := time.UnixMilli(1_700_000_060_000)
	s := &Session{
		ID:       "s-1",
		Question: "Best fruit?",
		Options: []Option{
			{Text: "Apple", Votes: 1, Percent: 50, IsCorrect: true},
			{Text: "Pear", Votes: 1, Percent: 50},
		},
		TotalVotes: 2,
		Active:     true,
		EndsAt:     endsAt,
	}

	snap := s.Snapshot()

	assert.Equal(t, SessionID("s-1"), snap.ID)
	assert.Equal(t, "Best fruit?", snap.Question)
	assert.Equal(t, 2, snap.TotalVotes)
	assert.True(t, snap.IsActive)
	assert.Equal(t, int64(1_700_000_060_000), snap.EndsAt)
	require.Len(t, snap.Options, 2)
	assert.Equal(t, OptionSnapshot{Text: "Apple", Votes: 1, Percent: 50, IsCorrect: true}, snap.Options[0])

	// the snapshot must not alias the session's options
	s.Options[0].Votes = 9
	assert.Equal(t, 1, snap.Options[0].Votes)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrAlreadyVoted, "Already voted in this poll."},
		{fmt.Errorf("vote: %w", ErrAlreadyVoted), "Already voted in this poll."},
		{ErrSessionClosed, "This poll is closed."},
		{ErrSessionNotFound, "Poll not found."},
		{ErrInvalidOption, "Invalid option."},
		{fmt.Errorf("%w: question is required", ErrValidation), "invalid request: question is required"},
		{errors.New("boom"), "Something went wrong."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
