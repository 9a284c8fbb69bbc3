// Package memory holds in-process implementations of the core ports.
package memory

import (
	"fmt"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// SessionStore is not safe for concurrent use; it belongs to the engine loop.
type SessionStore struct {
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domain.SessionID]*domain.Session)}
}

var _ ports.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Create(session *domain.Session) error {
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("create session %s: %w", session.ID, domain.ErrDuplicateSessionID)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(id domain.SessionID) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) SetActive(id domain.SessionID, active bool) error {
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Active = active
	return nil
}

func (s *SessionStore) Delete(id domain.SessionID) {
	delete(s.sessions, id)
}

// ListByPresenter returns a new slice, so callers may end or delete sessions
// while ranging over it.
func (s *SessionStore) ListByPresenter(presenterID domain.ConnectionID) []*domain.Session {
	var out []*domain.Session
	for _, session := range s.sessions {
		if session.PresenterID == presenterID {
			out = append(out, session)
		}
	}
	return out
}
