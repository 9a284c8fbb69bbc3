// Package ws carries engine commands and events over WebSocket connections.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// frame is the envelope for both directions.
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks connected peers and room membership. It is the only transport
// state shared between the engine loop and connection goroutines.
type Hub struct {
	mu    sync.RWMutex
	peers map[domain.ConnectionID]*peer
	rooms map[domain.RoomID]map[domain.ConnectionID]struct{}
	log   *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		peers: make(map[domain.ConnectionID]*peer),
		rooms: make(map[domain.RoomID]map[domain.ConnectionID]struct{}),
		log:   log,
	}
}

var _ ports.Rooms = (*Hub)(nil)

func (h *Hub) register(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p.id] = p
}

// unregister drops conn from every room and stops its writer.
func (h *Hub) unregister(conn domain.ConnectionID) {
	h.mu.Lock()
	p, ok := h.peers[conn]
	delete(h.peers, conn)
	for room, members := range h.rooms {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	if ok {
		p.close()
	}
}

// Join is a no-op for connections that are already gone.
func (h *Hub) Join(conn domain.ConnectionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[conn]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[domain.ConnectionID]struct{})
		h.rooms[room] = members
	}
	members[conn] = struct{}{}
}

func (h *Hub) Members(room domain.RoomID) []domain.ConnectionID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.ConnectionID, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		out = append(out, conn)
	}
	return out
}

func (h *Hub) Broadcast(room domain.RoomID, event domain.Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make([]*peer, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		if p, ok := h.peers[conn]; ok {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	h.deliver(targets, event.Name, data)
}

func (h *Hub) BroadcastAll(event domain.Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}
	h.mu.RLock()
	targets := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	h.deliver(targets, event.Name, data)
}

func (h *Hub) Send(conn domain.ConnectionID, event domain.Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}
	h.mu.RLock()
	p, found := h.peers[conn]
	h.mu.RUnlock()
	if !found {
		return
	}
	h.deliver([]*peer{p}, event.Name, data)
}

// Len reports how many connections are registered.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// CloseAll closes every connection. Readers exit and run their usual
// disconnect handling.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		p.close()
	}
}

func (h *Hub) deliver(targets []*peer, name domain.EventName, data []byte) {
	for _, p := range targets {
		if !p.enqueue(data) {
			h.log.Warn("Dropping event for slow connection", "conn", p.id, "event", name)
		}
	}
}

func (h *Hub) encode(event domain.Event) ([]byte, bool) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		h.log.Error("Encoding event payload", "event", event.Name, "error", err)
		return nil, false
	}
	data, err := json.Marshal(frame{Type: string(event.Name), Payload: payload})
	if err != nil {
		h.log.Error("Encoding event frame", "event", event.Name, "error", err)
		return nil, false
	}
	return data, true
}
