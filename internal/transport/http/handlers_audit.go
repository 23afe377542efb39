package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chainregistry/internal/audit"
	dErrors "chainregistry/pkg/domain-errors"
	"chainregistry/pkg/platform/httputil"
	"chainregistry/pkg/requestcontext"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditReader lists recent audit events.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type AuditHandler struct {
	logger *slog.Logger
	audit  AuditReader
}

func NewAuditHandler(reader AuditReader, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{logger: logger, audit: reader}
}

// Register mounts the audit routes; r must already be gated.
func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/verifier/audit", h.handleListRecent)
}

type auditEventResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	TxID      string    `json:"tx_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func (h *AuditHandler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAuditLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	events, err := h.audit.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			ID:        e.ID.String(),
			Timestamp: e.Timestamp,
			Action:    string(e.Action),
			Actor:     e.Actor,
			Subject:   e.Subject,
			Kind:      e.Kind,
			RecordID:  e.RecordID,
			TxID:      e.TxID,
			Status:    e.Status,
			ErrorKind: e.ErrorKind,
			Reason:    e.Reason,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": out})
}
