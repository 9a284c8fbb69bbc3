package domain

import (
	"time"

	"github.com/google/uuid"
)

// Poll is a persisted poll record. It has no relation to live sessions.
type Poll struct {
	ID         uuid.UUID    `json:"id"`
	Question   string       `json:"question"`
	Options    []PollOption `json:"options"`
	TotalVotes int          `json:"totalVotes"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type PollOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Votes     int    `json:"votes"`
}
