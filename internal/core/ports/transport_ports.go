package ports

//go:generate go run go.uber.org/mock/mockgen -source=transport_ports.go -destination=../../mocks/mock_transport_ports.go -package=mocks

import (
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
)

// Rooms is the membership and delivery primitive provided by the transport.
type Rooms interface {
	Join(connID domain.ConnectionID, room domain.RoomID)
	Members(room domain.RoomID) []domain.ConnectionID
	Broadcast(room domain.RoomID, event domain.Event)
	BroadcastAll(event domain.Event)
	Send(connID domain.ConnectionID, event domain.Event)
}

type CancelFunc func() bool

// Scheduler runs fn on the engine loop once d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}
