package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chainregistry/internal/ledger"
	"chainregistry/pkg/platform/httputil"
	"chainregistry/pkg/requestcontext"
)

// SessionService is the ledger connection the process owns.
type SessionService interface {
	State() ledger.State
	Snapshot() ledger.Session
	Connect(ctx context.Context) (ledger.Session, error)
	Disconnect()
}

type SessionHandler struct {
	logger  *slog.Logger
	session SessionService
}

func NewSessionHandler(session SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{logger: logger, session: session}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/session", h.handleSnapshot)
	r.Post("/session/connect", h.handleConnect)
	r.Post("/session/disconnect", h.handleDisconnect)
}

func (h *SessionHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(h.session.State(), h.session.Snapshot()))
}

func (h *SessionHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.session.Connect(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "session connect failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(h.session.State(), sess))
}

func (h *SessionHandler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.session.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}
