package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

const DefaultSessionDuration = 60 * time.Second

type LifecycleConfig struct {
	DefaultDuration time.Duration
	// Retention is how long an ended session stays queryable. Zero keeps it
	// until the process stops.
	Retention time.Duration
	Now       func() time.Time
}

// LifecycleService owns live sessions: creation, votes, and every way a
// session can end. All methods must run on the engine loop.
type LifecycleService struct {
	sessions  ports.SessionStore
	ledger    ports.VoteLedger
	rooms     ports.Rooms
	fanout    *Fanout
	scheduler ports.Scheduler
	log       *slog.Logger

	defaultDuration time.Duration
	retention       time.Duration
	now             func() time.Time

	expiries map[domain.SessionID]ports.CancelFunc
}

func NewLifecycleService(
	sessions ports.SessionStore,
	ledger ports.VoteLedger,
	rooms ports.Rooms,
	fanout *Fanout,
	scheduler ports.Scheduler,
	cfg LifecycleConfig,
	log *slog.Logger,
) *LifecycleService {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultSessionDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LifecycleService{
		sessions:        sessions,
		ledger:          ledger,
		rooms:           rooms,
		fanout:          fanout,
		scheduler:       scheduler,
		log:             log,
		defaultDuration: cfg.DefaultDuration,
		retention:       cfg.Retention,
		now:             cfg.Now,
		expiries:        make(map[domain.SessionID]ports.CancelFunc),
	}
}

// Create starts a new session for presenter. Any session the presenter still
// has running is ended first.
func (s *LifecycleService) Create(presenter domain.ConnectionID, input ports.CreateSessionInput) (*domain.Session, error) {
	id := domain.SessionID(strings.TrimSpace(input.ID))
	if id == "" {
		id = domain.SessionID(uuid.NewString())
	}
	if _, err := s.sessions.Get(id); err == nil {
		return nil, fmt.Errorf("create session %s: %w", id, domain.ErrDuplicateSessionID)
	}

	for _, previous := range s.sessions.ListByPresenter(presenter) {
		if previous.Active {
			s.end(previous, "replaced")
		}
	}

	now := s.now()
	session := &domain.Session{
		ID:       id,
		Question: strings.TrimSpace(input.Question),
		Options: lo.Map(input.Options, func(opt ports.OptionInput, _ int) domain.Option {
			return domain.Option{Text: strings.TrimSpace(opt.Text), IsCorrect: opt.IsCorrect}
		}),
		Active:      true,
		PresenterID: presenter,
		CreatedAt:   now,
	}
	duration := input.DurationOr(s.defaultDuration)
	session.EndsAt = now.Add(duration)

	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	s.expiries[id] = s.scheduler.AfterFunc(duration, func() { s.Expire(id) })

	s.rooms.Join(presenter, id.Room())
	s.fanout.SessionStarted(session)

	// Point-in-time copy: whoever enters the waiting room later is not
	// pulled into this session.
	for _, member := range s.rooms.Members(domain.WaitingRoom) {
		s.rooms.Join(member, id.Room())
	}

	s.fanout.Created(presenter, id)
	s.log.Info("Session started", "session_id", id, "presenter", presenter, "options", len(session.Options), "duration", duration)
	return session, nil
}

func (s *LifecycleService) JoinWaitingRoom(conn domain.ConnectionID) {
	s.rooms.Join(conn, domain.WaitingRoom)
	s.fanout.WaitingRoomJoined(conn)
}

func (s *LifecycleService) Join(conn domain.ConnectionID, id domain.SessionID) error {
	session, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	if !session.Active {
		return domain.ErrSessionClosed
	}
	s.rooms.Join(conn, id.Room())
	s.fanout.Joined(conn, session)
	return nil
}

func (s *LifecycleService) Vote(participant domain.ConnectionID, id domain.SessionID, optionIndex int) error {
	session, err := s.sessions.Get(id)
	if err != nil || !session.Active {
		return domain.ErrSessionClosed
	}
	if s.ledger.HasVoted(participant, id) {
		return domain.ErrAlreadyVoted
	}
	if err := Tally(session, optionIndex); err != nil {
		return err
	}
	s.ledger.Record(participant, id)
	s.fanout.SessionUpdated(session)
	return nil
}

// End stops a session on behalf of its presenter. It returns
// ErrUnauthorized, ErrSessionNotFound or ErrSessionClosed without touching
// anything when the request does not apply.
func (s *LifecycleService) End(presenter domain.ConnectionID, id domain.SessionID) error {
	session, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	if session.PresenterID != presenter {
		return domain.ErrUnauthorized
	}
	if !session.Active {
		return domain.ErrSessionClosed
	}
	s.end(session, "manual")
	return nil
}

func (s *LifecycleService) Results(conn domain.ConnectionID, id domain.SessionID) error {
	session, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	s.fanout.Results(conn, session)
	return nil
}

// Snapshot reads a session for callers outside the socket protocol.
func (s *LifecycleService) Snapshot(id domain.SessionID) (domain.Snapshot, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Disconnect ends every running session presented by conn and drops its
// vote records.
func (s *LifecycleService) Disconnect(conn domain.ConnectionID) {
	for _, session := range s.sessions.ListByPresenter(conn) {
		if session.Active {
			s.end(session, "presenter disconnected")
		}
	}
	s.ledger.Clear(conn)
}

// Expire is the timer callback. The timer may fire after a manual end, so
// it only acts on sessions that are still active.
func (s *LifecycleService) Expire(id domain.SessionID) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return
	}
	if session.Active {
		s.end(session, "expired")
	}
}

func (s *LifecycleService) end(session *domain.Session, reason string) {
	if !session.Active {
		return
	}
	if err := s.sessions.SetActive(session.ID, false); err != nil {
		s.log.Warn("Ending unknown session", "session_id", session.ID, "error", err)
		return
	}
	endedAt := s.now()
	session.EndedAt = &endedAt

	if cancel, ok := s.expiries[session.ID]; ok {
		cancel()
		delete(s.expiries, session.ID)
	}
	s.fanout.SessionEnded(session)
	s.log.Info("Session ended", "session_id", session.ID, "reason", reason, "total_votes", session.TotalVotes)

	if s.retention > 0 {
		id := session.ID
		s.scheduler.AfterFunc(s.retention, func() { s.purge(id) })
	}
}

func (s *LifecycleService) purge(id domain.SessionID) {
	session, err := s.sessions.Get(id)
	if err != nil || session.Active {
		return
	}
	s.sessions.Delete(id)
	s.ledger.ForgetSession(id)
	s.log.Debug("Session purged", "session_id", id)
}
