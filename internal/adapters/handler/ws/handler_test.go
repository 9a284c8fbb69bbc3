package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/services"
	"golang.org/x/net/websocket"
)

type testFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type testServer struct {
	srv *httptest.Server
	hub *Hub
}

func newTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	hub := NewHub(log)
	loop := services.NewLoop(16, log)
	fanout := services.NewFanout(hub, services.AnnounceWaitingRoom)
	lifecycle := services.NewLifecycleService(
		memory.NewSessionStore(), memory.NewVoteLedger(), hub, fanout, loop,
		services.LifecycleConfig{}, log,
	)
	dispatcher := services.NewDispatcher(lifecycle, fanout, log)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()

	srv := httptest.NewServer(NewHandler(hub, loop, dispatcher, cfg, log))
	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
		cancel()
	})
	return &testServer{srv: srv, hub: hub}
}

func (s *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, err := dialWithOrigin(s.srv.URL, s.srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func dialWithOrigin(httpURL, origin string) (*websocket.Conn, error) {
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/"
	return websocket.Dial(wsURL, "", origin)
}

func writeFrame(t *testing.T, conn *websocket.Conn, frameType string, payload any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"type": frameType, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(conn, string(raw)))
}

func readFrame(t *testing.T, conn *websocket.Conn) testFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var raw string
	require.NoError(t, websocket.Message.Receive(conn, &raw))
	var got testFrame
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	return got
}

func expectFrame(t *testing.T, conn *websocket.Conn, frameType string) testFrame {
	t.Helper()
	got := readFrame(t, conn)
	require.Equal(t, frameType, got.Type, "payload: %s", got.Payload)
	return got
}

func decodeSession(t *testing.T, f testFrame) domain.Snapshot {
	t.Helper()
	var payload struct {
		Session domain.Snapshot `json:"session"`
	}
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	return payload.Session
}

func TestSocketCreateVoteUpdate(t *testing.T) {
	s := newTestServer(t, Config{OutboundBuffer: 8})
	presenter := s.dial(t)
	alice := s.dial(t)

	writeFrame(t, alice, "join-waiting-room", map[string]any{})
	expectFrame(t, alice, "waiting-room-joined")

	writeFrame(t, presenter, "create-session", map[string]any{
		"question": "Tabs or spaces?",
		"options":  []string{"Tabs", "Spaces"},
		"duration": 60000,
	})
	created := expectFrame(t, presenter, "session-created")
	var ack struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(created.Payload, &ack))
	require.NotEmpty(t, ack.SessionID)

	started := decodeSession(t, expectFrame(t, alice, "session-started"))
	assert.Equal(t, domain.SessionID(ack.SessionID), started.ID)
	assert.True(t, started.IsActive)

	writeFrame(t, alice, "submit-vote", map[string]any{"sessionId": ack.SessionID, "optionIndex": 1})

	for _, conn := range []*websocket.Conn{presenter, alice} {
		snap := decodeSession(t, expectFrame(t, conn, "session-update"))
		assert.Equal(t, 1, snap.TotalVotes)
		assert.Equal(t, 100, snap.Options[1].Percent)
	}

	writeFrame(t, alice, "submit-vote", map[string]any{"sessionId": ack.SessionID, "optionIndex": 0})
	rejected := expectFrame(t, alice, "error")
	assert.JSONEq(t, `{"message":"Already voted in this poll."}`, string(rejected.Payload))
}

func TestSocketPresenterDisconnectEndsSession(t *testing.T) {
	s := newTestServer(t, Config{OutboundBuffer: 8})
	presenter := s.dial(t)
	alice := s.dial(t)

	writeFrame(t, alice, "join-waiting-room", nil)
	expectFrame(t, alice, "waiting-room-joined")

	writeFrame(t, presenter, "create-session", map[string]any{
		"id":       "standup",
		"question": "Ready?",
		"options":  []string{"Yes", "No"},
	})
	expectFrame(t, presenter, "session-created")
	expectFrame(t, alice, "session-started")

	require.NoError(t, presenter.Close())

	ended := decodeSession(t, expectFrame(t, alice, "session-ended"))
	assert.Equal(t, domain.SessionID("standup"), ended.ID)
	assert.False(t, ended.IsActive)
}

func TestSocketClosesAfterRepeatedMalformedFrames(t *testing.T) {
	s := newTestServer(t, Config{OutboundBuffer: 8})
	conn := s.dial(t)

	for range maxDecodeErrorsPerConn {
		require.NoError(t, websocket.Message.Send(conn, "{not json"))
	}

	errorsSeen := 0
	for {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var raw string
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			break
		}
		var got testFrame
		require.NoError(t, json.Unmarshal([]byte(raw), &got))
		assert.Equal(t, "error", got.Type)
		assert.JSONEq(t, `{"message":"invalid request: malformed frame"}`, string(got.Payload))
		errorsSeen++
	}
	assert.Equal(t, maxDecodeErrorsPerConn, errorsSeen)

	require.Eventually(t, func() bool { return s.hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSocketMalformedFrameCounterResets(t *testing.T) {
	s := newTestServer(t, Config{OutboundBuffer: 8})
	conn := s.dial(t)

	for range maxDecodeErrorsPerConn - 1 {
		require.NoError(t, websocket.Message.Send(conn, "[]"))
		expectFrame(t, conn, "error")
	}
	writeFrame(t, conn, "join-waiting-room", nil)
	expectFrame(t, conn, "waiting-room-joined")

	require.NoError(t, websocket.Message.Send(conn, "[]"))
	expectFrame(t, conn, "error")
	writeFrame(t, conn, "join-waiting-room", nil)
	expectFrame(t, conn, "waiting-room-joined")
}

func TestSocketRejectsUnknownOrigin(t *testing.T) {
	s := newTestServer(t, Config{AllowedOrigins: []string{"https://poll.example.com"}})

	_, err := dialWithOrigin(s.srv.URL, "https://evil.example.com")
	require.Error(t, err)

	conn, err := dialWithOrigin(s.srv.URL, "https://poll.example.com")
	require.NoError(t, err)
	_ = conn.Close()
}
