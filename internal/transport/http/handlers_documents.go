package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chainregistry/internal/documents"
	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/httputil"
	"chainregistry/pkg/requestcontext"
)

// HeaderViewID names the transient view a raw document response came from.
const HeaderViewID = "X-View-ID"

// DocumentService reads staged attachments.
type DocumentService interface {
	Retrieve(ctx context.Context, hash domain.ContentHash) (*documents.Document, error)
	Open(ctx context.Context, hash domain.ContentHash) (*documents.View, error)
	Release(hash domain.ContentHash) int
}

// DocumentHandler lets verifiers inspect the documents a registration
// references by hash.
type DocumentHandler struct {
	logger    *slog.Logger
	documents DocumentService
}

func NewDocumentHandler(docs DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{logger: logger, documents: docs}
}

// Register mounts the document routes; r must already be gated.
func (h *DocumentHandler) Register(r chi.Router) {
	r.Get("/verifier/documents/{hash}", h.handleRetrieve)
	r.Get("/verifier/documents/{hash}/raw", h.handleRaw)
	r.Delete("/verifier/documents/{hash}/views", h.handleRelease)
}

func (h *DocumentHandler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.documents.Retrieve(ctx, domain.ContentHash(chi.URLParam(r, "hash")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, documentResponse{
		ContentHash: doc.Hash.String(),
		Mime:        doc.Mime,
		ContentType: doc.ContentType(),
		Payload:     doc.Payload,
	})
}

// handleRaw serves the decoded bytes through a transient view. The view stays
// registered until the client releases the hash.
func (h *DocumentHandler) handleRaw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.documents.Open(ctx, domain.ContentHash(chi.URLParam(r, "hash")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	data, err := view.Bytes()
	if err != nil {
		// Released between Open and Bytes.
		h.logger.InfoContext(ctx, "document view revoked before read",
			"request_id", requestcontext.RequestID(ctx),
			"content_hash", view.Hash,
		)
		w.WriteHeader(http.StatusGone)
		return
	}

	w.Header().Set("Content-Type", view.Mime.ContentType(data))
	w.Header().Set(HeaderViewID, view.ID.String())
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *DocumentHandler) handleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hash, err := domain.ParseContentHash(chi.URLParam(r, "hash"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	released := h.documents.Release(hash)
	h.logger.InfoContext(ctx, "document views released",
		"request_id", requestcontext.RequestID(ctx),
		"content_hash", hash,
		"views", released,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"released": released})
}
