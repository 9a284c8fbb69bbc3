package services

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type scheduledTask struct {
	after     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

// fakeScheduler keeps timers until the test fires them.
type fakeScheduler struct {
	tasks []*scheduledTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	task := &scheduledTask{after: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() bool {
		if task.fired || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// fireDue runs every pending, non-cancelled timer armed for d.
func (s *fakeScheduler) fireDue(d time.Duration) int {
	fired := 0
	for _, task := range s.pending() {
		if task.after == d && !task.cancelled {
			task.fired = true
			task.fn()
			fired++
		}
	}
	return fired
}

// fireIgnoringCancel runs timers for d even when they were cancelled, as a
// real timer may already be queued when Stop is called.
func (s *fakeScheduler) fireIgnoringCancel(d time.Duration) {
	for _, task := range s.pending() {
		if task.after == d {
			task.fired = true
			task.fn()
		}
	}
}

func (s *fakeScheduler) pending() []*scheduledTask {
	var out []*scheduledTask
	for _, task := range s.tasks {
		if !task.fired {
			out = append(out, task)
		}
	}
	return out
}

type delivery struct {
	to    domain.ConnectionID
	event domain.Event
}

// recordingRooms is an in-memory Rooms that expands every broadcast into
// per-connection deliveries.
type recordingRooms struct {
	members    map[domain.RoomID][]domain.ConnectionID
	all        []domain.ConnectionID
	deliveries []delivery
	broadcasts []domain.RoomID
}

func newRecordingRooms(conns ...domain.ConnectionID) *recordingRooms {
	return &recordingRooms{
		members: make(map[domain.RoomID][]domain.ConnectionID),
		all:     conns,
	}
}

func (r *recordingRooms) Join(conn domain.ConnectionID, room domain.RoomID) {
	for _, m := range r.members[room] {
		if m == conn {
			return
		}
	}
	r.members[room] = append(r.members[room], conn)
}

func (r *recordingRooms) Members(room domain.RoomID) []domain.ConnectionID {
	return append([]domain.ConnectionID(nil), r.members[room]...)
}

func (r *recordingRooms) Broadcast(room domain.RoomID, event domain.Event) {
	r.broadcasts = append(r.broadcasts, room)
	for _, m := range r.members[room] {
		r.deliveries = append(r.deliveries, delivery{to: m, event: event})
	}
}

func (r *recordingRooms) BroadcastAll(event domain.Event) {
	r.broadcasts = append(r.broadcasts, "*")
	for _, m := range r.all {
		r.deliveries = append(r.deliveries, delivery{to: m, event: event})
	}
}

func (r *recordingRooms) Send(conn domain.ConnectionID, event domain.Event) {
	r.deliveries = append(r.deliveries, delivery{to: conn, event: event})
}

func (r *recordingRooms) received(conn domain.ConnectionID, name domain.EventName) []domain.Event {
	var out []domain.Event
	for _, d := range r.deliveries {
		if d.to == conn && d.event.Name == name {
			out = append(out, d.event)
		}
	}
	return out
}

func (r *recordingRooms) last(t *testing.T, conn domain.ConnectionID, name domain.EventName) domain.Event {
	t.Helper()
	events := r.received(conn, name)
	require.NotEmpty(t, events, "%s never received %s", conn, name)
	return events[len(events)-1]
}

func (r *recordingRooms) reset() {
	r.deliveries = nil
	r.broadcasts = nil
}

type testEngine struct {
	store      *memory.SessionStore
	ledger     *memory.VoteLedger
	rooms      *recordingRooms
	scheduler  *fakeScheduler
	lifecycle  *LifecycleService
	dispatcher *Dispatcher
	now        time.Time
}

type engineOption func(*LifecycleConfig, *AnnounceScope)

func withRetention(d time.Duration) engineOption {
	return func(cfg *LifecycleConfig, _ *AnnounceScope) { cfg.Retention = d }
}

func withAnnounce(scope AnnounceScope) engineOption {
	return func(_ *LifecycleConfig, s *AnnounceScope) { *s = scope }
}

func newTestEngine(t *testing.T, opts ...engineOption) *testEngine {
	t.Helper()
	e := &testEngine{
		store:     memory.NewSessionStore(),
		ledger:    memory.NewVoteLedger(),
		rooms:     newRecordingRooms("presenter", "alice", "bob", "carol"),
		scheduler: &fakeScheduler{},
		now:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	cfg := LifecycleConfig{Now: func() time.Time { return e.now }}
	scope := AnnounceWaitingRoom
	for _, opt := range opts {
		opt(&cfg, &scope)
	}

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	fanout := NewFanout(e.rooms, scope)
	e.lifecycle = NewLifecycleService(e.store, e.ledger, e.rooms, fanout, e.scheduler, cfg, log)
	e.dispatcher = NewDispatcher(e.lifecycle, fanout, log)
	return e
}

func (e *testEngine) send(t *testing.T, conn domain.ConnectionID, name domain.CommandName, payload any) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = b
	}
	e.dispatcher.Dispatch(conn, ports.Command{Name: name, Payload: raw})
}

// createSession runs create-session for conn and returns the new id.
func (e *testEngine) createSession(t *testing.T, conn domain.ConnectionID, payload map[string]any) domain.SessionID {
	t.Helper()
	e.send(t, conn, domain.CommandCreateSession, payload)
	created := e.rooms.last(t, conn, domain.EventSessionCreated)
	return created.Payload.(domain.SessionCreatedPayload).SessionID
}

func snapshotOf(t *testing.T, evt domain.Event) domain.Snapshot {
	t.Helper()
	payload, ok := evt.Payload.(domain.SessionPayload)
	require.True(t, ok, "event %s has payload %T", evt.Name, evt.Payload)
	return payload.Session
}

func errorMessage(t *testing.T, evt domain.Event) string {
	t.Helper()
	payload, ok := evt.Payload.(domain.ErrorPayload)
	require.True(t, ok)
	return payload.Message
}
