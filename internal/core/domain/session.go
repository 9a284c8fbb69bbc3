package domain

import (
	"time"

	"github.com/samber/lo"
)

type SessionID string

type ConnectionID string

type RoomID string

const WaitingRoom RoomID = "waiting-room"

// Room is the broadcast group that follows a session. Session rooms are
// prefixed so no session id can collide with WaitingRoom.
func (id SessionID) Room() RoomID {
	return RoomID("session:" + id)
}

type Option struct {
	Text      string
	IsCorrect bool
	Votes     int
	Percent   int
}

// Session is one live poll. It is owned by the engine loop and never shared
// across goroutines.
type Session struct {
	ID          SessionID
	Question    string
	Options     []Option
	TotalVotes  int
	Active      bool
	PresenterID ConnectionID
	CreatedAt   time.Time
	EndsAt      time.Time
	EndedAt     *time.Time
}

type OptionSnapshot struct {
	Text      string `json:"text"`
	Votes     int    `json:"votes"`
	Percent   int    `json:"percent"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

type Snapshot struct {
	ID         SessionID        `json:"id"`
	Question   string           `json:"question"`
	Options    []OptionSnapshot `json:"options"`
	TotalVotes int              `json:"totalVotes"`
	IsActive   bool             `json:"isActive"`
	EndsAt     int64            `json:"endsAt"`
}

// Snapshot copies the session into its wire shape. endsAt is Unix millis.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:       s.ID,
		Question: s.Question,
		Options: lo.Map(s.Options, func(opt Option, _ int) OptionSnapshot {
			return OptionSnapshot{
				Text:      opt.Text,
				Votes:     opt.Votes,
				Percent:   opt.Percent,
				IsCorrect: opt.IsCorrect,
			}
		}),
		TotalVotes: s.TotalVotes,
		IsActive:   s.Active,
		EndsAt:     s.EndsAt.UnixMilli(),
	}
}
