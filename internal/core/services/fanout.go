package services

import (
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type AnnounceScope string

const (
	AnnounceWaitingRoom AnnounceScope = "waiting-room"
	AnnounceAll         AnnounceScope = "all"
)

// Fanout decides who receives each engine event. Room events go through
// Broadcast; acknowledgements and errors only ever reach the requester.
type Fanout struct {
	rooms    ports.Rooms
	announce AnnounceScope
}

func NewFanout(rooms ports.Rooms, announce AnnounceScope) *Fanout {
	if announce == "" {
		announce = AnnounceWaitingRoom
	}
	return &Fanout{rooms: rooms, announce: announce}
}

func (f *Fanout) SessionStarted(s *domain.Session) {
	evt := sessionEvent(domain.EventSessionStarted, s)
	if f.announce == AnnounceAll {
		f.rooms.BroadcastAll(evt)
		return
	}
	f.rooms.Broadcast(domain.WaitingRoom, evt)
}

func (f *Fanout) SessionUpdated(s *domain.Session) {
	f.rooms.Broadcast(s.ID.Room(), sessionEvent(domain.EventSessionUpdate, s))
}

func (f *Fanout) SessionEnded(s *domain.Session) {
	f.rooms.Broadcast(s.ID.Room(), sessionEvent(domain.EventSessionEnded, s))
}

func (f *Fanout) Created(to domain.ConnectionID, id domain.SessionID) {
	f.rooms.Send(to, domain.Event{
		Name:    domain.EventSessionCreated,
		Payload: domain.SessionCreatedPayload{SessionID: id},
	})
}

func (f *Fanout) Joined(to domain.ConnectionID, s *domain.Session) {
	f.rooms.Send(to, sessionEvent(domain.EventSessionJoined, s))
}

func (f *Fanout) Results(to domain.ConnectionID, s *domain.Session) {
	f.rooms.Send(to, sessionEvent(domain.EventSessionResults, s))
}

func (f *Fanout) WaitingRoomJoined(to domain.ConnectionID) {
	f.rooms.Send(to, domain.Event{Name: domain.EventWaitingRoomJoined, Payload: domain.EmptyPayload{}})
}

func (f *Fanout) Error(to domain.ConnectionID, err error) {
	f.rooms.Send(to, domain.Event{
		Name:    domain.EventError,
		Payload: domain.ErrorPayload{Message: domain.UserMessage(err)},
	})
}

func sessionEvent(name domain.EventName, s *domain.Session) domain.Event {
	return domain.Event{Name: name, Payload: domain.SessionPayload{Session: s.Snapshot()}}
}
