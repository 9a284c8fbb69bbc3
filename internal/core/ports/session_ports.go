package ports

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// SessionStore holds live sessions. Implementations are not required to be
// safe for concurrent use: the engine loop is the only caller.
type SessionStore interface {
	Create(session *domain.Session) error
	Get(id domain.SessionID) (*domain.Session, error)
	SetActive(id domain.SessionID, active bool) error
	Delete(id domain.SessionID)
	ListByPresenter(presenterID domain.ConnectionID) []*domain.Session
}

type VoteLedger interface {
	HasVoted(participantID domain.ConnectionID, sessionID domain.SessionID) bool
	Record(participantID domain.ConnectionID, sessionID domain.SessionID)
	Clear(participantID domain.ConnectionID)
	ForgetSession(sessionID domain.SessionID)
}

// SessionQuery reads live sessions from outside the engine loop.
type SessionQuery interface {
	Snapshot(ctx context.Context, id domain.SessionID) (domain.Snapshot, error)
}
