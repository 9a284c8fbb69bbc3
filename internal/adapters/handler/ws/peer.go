package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"golang.org/x/net/websocket"
)

const flushTimeout = time.Second

// peer owns the write side of one connection. Frames are queued on out and
// written by a single goroutine so a slow client never blocks the engine.
type peer struct {
	id        domain.ConnectionID
	conn      *websocket.Conn
	out       chan []byte
	done      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func newPeer(id domain.ConnectionID, conn *websocket.Conn, buffer int, log *slog.Logger) *peer {
	if buffer <= 0 {
		buffer = 1
	}
	return &peer{
		id:       id,
		conn:     conn,
		out:      make(chan []byte, buffer),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		log:      log,
	}
}

// enqueue reports false when the frame was dropped.
func (p *peer) enqueue(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.out <- data:
		return true
	default:
		return false
	}
}

// writeLoop owns the socket: it is the only writer and it closes the
// connection once the peer is closed and the queue is flushed.
func (p *peer) writeLoop() {
	defer func() {
		_ = p.conn.Close()
		close(p.finished)
	}()
	for {
		select {
		case <-p.done:
			p.flush()
			return
		case data := <-p.out:
			if err := p.write(data); err != nil {
				p.log.Debug("Writing to connection", "conn", p.id, "error", err)
				p.close()
				return
			}
		}
	}
}

func (p *peer) flush() {
	_ = p.conn.SetWriteDeadline(time.Now().Add(flushTimeout))
	for {
		select {
		case data := <-p.out:
			if err := p.write(data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (p *peer) write(data []byte) error {
	return websocket.Message.Send(p.conn, string(data))
}

func (p *peer) close() {
	p.closeOnce.Do(func() { close(p.done) })
}
