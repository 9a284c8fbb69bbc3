package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	"golang.org/x/net/websocket"
)

const (
	maxFrameBytes          = 64 * 1024
	maxDecodeErrorsPerConn = 5
)

// Engine receives decoded commands. Its methods are only called from tasks
// posted to the Loop.
type Engine interface {
	Dispatch(conn domain.ConnectionID, cmd ports.Command)
	Disconnect(conn domain.ConnectionID)
}

// Loop serializes engine work.
type Loop interface {
	Post(task func())
}

type Config struct {
	OutboundBuffer int
	// AllowedOrigins limits browser origins; "*" or an empty list allows all.
	AllowedOrigins []string
}

type Handler struct {
	hub    *Hub
	loop   Loop
	engine Engine
	cfg    Config
	log    *slog.Logger
}

func NewHandler(hub *Hub, loop Loop, engine Engine, cfg Config, log *slog.Logger) *Handler {
	return &Handler{hub: hub, loop: loop, engine: engine, cfg: cfg, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server := websocket.Server{
		Handshake: h.checkOrigin,
		Handler:   h.serveConn,
	}
	server.ServeHTTP(w, r)
}

func (h *Handler) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("bad origin %q: %w", origin, err)
	}
	cfg.Origin = u
	if len(h.cfg.AllowedOrigins) == 0 || lo.Contains(h.cfg.AllowedOrigins, "*") {
		return nil
	}
	if lo.ContainsBy(h.cfg.AllowedOrigins, func(allowed string) bool {
		return strings.EqualFold(strings.TrimRight(allowed, "/"), origin)
	}) {
		return nil
	}
	return fmt.Errorf("origin %q not allowed", origin)
}

func (h *Handler) serveConn(conn *websocket.Conn) {
	conn.MaxPayloadBytes = maxFrameBytes
	id := domain.ConnectionID(uuid.NewString())
	p := newPeer(id, conn, h.cfg.OutboundBuffer, h.log)
	h.hub.register(p)
	go p.writeLoop()

	h.log.Debug("Connection opened", "conn", id, "remote", conn.Request().RemoteAddr)
	defer func() {
		h.hub.unregister(id)
		<-p.finished
		h.loop.Post(func() { h.engine.Disconnect(id) })
		h.log.Debug("Connection closed", "conn", id)
	}()

	decodeErrors := 0
	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			if !errors.Is(err, io.EOF) {
				h.log.Debug("Reading from connection", "conn", id, "error", err)
			}
			return
		}

		var in frame
		if err := json.Unmarshal(data, &in); err != nil || in.Type == "" {
			decodeErrors++
			h.hub.Send(id, domain.Event{
				Name:    domain.EventError,
				Payload: domain.ErrorPayload{Message: domain.UserMessage(fmt.Errorf("%w: malformed frame", domain.ErrValidation))},
			})
			if decodeErrors >= maxDecodeErrorsPerConn {
				h.log.Warn("Closing connection after repeated malformed frames", "conn", id)
				return
			}
			continue
		}
		decodeErrors = 0

		cmd := ports.Command{Name: domain.CommandName(in.Type), Payload: in.Payload}
		h.loop.Post(func() { h.engine.Dispatch(id, cmd) })
	}
}
