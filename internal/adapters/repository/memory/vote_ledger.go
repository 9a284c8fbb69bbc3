package memory

import (
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// VoteLedger records which sessions each participant voted in. Like
// SessionStore it is owned by the engine loop.
type VoteLedger struct {
	votes map[domain.ConnectionID]map[domain.SessionID]struct{}
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{votes: make(map[domain.ConnectionID]map[domain.SessionID]struct{})}
}

var _ ports.VoteLedger = (*VoteLedger)(nil)

func (l *VoteLedger) HasVoted(participantID domain.ConnectionID, sessionID domain.SessionID) bool {
	_, ok := l.votes[participantID][sessionID]
	return ok
}

// Record does not check for an existing entry; callers reject duplicates
// with HasVoted first.
func (l *VoteLedger) Record(participantID domain.ConnectionID, sessionID domain.SessionID) {
	sessions, ok := l.votes[participantID]
	if !ok {
		sessions = make(map[domain.SessionID]struct{})
		l.votes[participantID] = sessions
	}
	sessions[sessionID] = struct{}{}
}

func (l *VoteLedger) Clear(participantID domain.ConnectionID) {
	delete(l.votes, participantID)
}

func (l *VoteLedger) ForgetSession(sessionID domain.SessionID) {
	for participantID, sessions := range l.votes {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(l.votes, participantID)
		}
	}
}
