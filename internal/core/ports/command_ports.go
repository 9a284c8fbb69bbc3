package ports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// MaxDurationMillis is the longest session duration that still fits in a
// time.Duration.
const MaxDurationMillis = int64(math.MaxInt64 / int64(time.Millisecond))

type CreateSessionInput struct {
	Question string        `json:"question" validate:"required,notblank"`
	Options  []OptionInput `json:"options" validate:"required,min=2,dive"`
	Duration *int64        `json:"duration" validate:"omitempty,gt=0,lte=9223372036854"`
	ID       string        `json:"id" validate:"omitempty,max=128"`
}

// DurationOr returns the requested duration, or fallback when none was sent.
func (in CreateSessionInput) DurationOr(fallback time.Duration) time.Duration {
	if in.Duration == nil {
		return fallback
	}
	return time.Duration(min(*in.Duration, MaxDurationMillis)) * time.Millisecond
}

// OptionInput accepts either a bare string or {"text": ..., "isCorrect": ...}.
type OptionInput struct {
	Text      string `json:"text" validate:"required,notblank"`
	IsCorrect bool   `json:"isCorrect"`
}

func (o *OptionInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*o = OptionInput{Text: text}
		return nil
	}

	type plain OptionInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("option must be a string or an object: %w", err)
	}
	*o = OptionInput(p)
	return nil
}

type SessionRef struct {
	SessionID domain.SessionID `json:"sessionId" validate:"required"`
}

type VoteInput struct {
	SessionID   domain.SessionID `json:"sessionId" validate:"required"`
	OptionIndex *int             `json:"optionIndex" validate:"required"`
}

// Command is one inbound frame from a connection.
type Command struct {
	Name    domain.CommandName
	Payload json.RawMessage
}
