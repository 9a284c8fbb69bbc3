package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// SessionHandler exposes a read-only view of live sessions.
type SessionHandler struct {
	query ports.SessionQuery
	log   *slog.Logger
}

func NewSessionHandler(query ports.SessionQuery, log *slog.Logger) *SessionHandler {
	return &SessionHandler{query: query, log: log}
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	snap, err := h.query.Snapshot(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.SessionPayload{Session: snap})
}
