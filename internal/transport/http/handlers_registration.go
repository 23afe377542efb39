package httptransport

import (
	"context"
	"iter"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chainregistry/internal/registration"
	"chainregistry/internal/transaction"
	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/httputil"
	"chainregistry/pkg/requestcontext"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks chainregistry/internal/transport/http RegistrationService,DocumentService,SessionService,AuditReader

// RegistrationService is the workflow surface the HTTP edge drives.
type RegistrationService interface {
	RegisterUser(ctx context.Context, req registration.RegisterUserRequest) (*registration.RegisterUserResult, error)
	AddLand(ctx context.Context, req registration.AddLandRequest) (*transaction.Record, error)
	VerifyUser(ctx context.Context, req registration.VerifyRequest) (*transaction.Record, error)
	ListUnverified(ctx context.Context) iter.Seq2[registration.VerificationEntry, error]
	User(ctx context.Context, addr domain.Address) (*registration.UserRecord, error)
}

// RegistrationHandler serves the registrant and verifier workflows.
type RegistrationHandler struct {
	logger   *slog.Logger
	workflow RegistrationService
}

func NewRegistrationHandler(workflow RegistrationService, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{logger: logger, workflow: workflow}
}

// Register mounts the registrant routes on r.
func (h *RegistrationHandler) Register(r chi.Router) {
	r.Post("/users/register", h.handleRegisterUser)
	r.Post("/land", h.handleAddLand)
}

// RegisterVerifier mounts the verifier routes; r must already be gated.
func (h *RegistrationHandler) RegisterVerifier(r chi.Router) {
	r.Get("/verifier/users/unverified", h.handleListUnverified)
	r.Get("/verifier/users/{address}", h.handleGetUser)
	r.Post("/verifier/users/{address}/verify", h.handleVerifyUser)
}

func (h *RegistrationHandler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registration.RegisterUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.workflow.RegisterUser(ctx, *req)
	var rec *transaction.Record
	if res != nil {
		rec = res.Record
	}
	status, body := outcome(err, rec)
	resp := registerUserResponse{outcomeResponse: body}
	if res != nil {
		resp.AadharHash = res.AadharHash.String()
		resp.PANHash = res.PANHash.String()
		if res.Attestation.Signature != "" {
			resp.Attestation = &attestationResponse{
				Message:   res.Attestation.Message,
				Signature: res.Attestation.Signature,
			}
		}
	}
	h.logOutcome(ctx, "register user", requestID, err)
	httputil.WriteJSON(w, status, resp)
}

func (h *RegistrationHandler) handleAddLand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[registration.AddLandRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.workflow.AddLand(ctx, *req)
	status, body := outcome(err, rec)
	h.logOutcome(ctx, "add land", requestID, err)
	httputil.WriteJSON(w, status, body)
}

func (h *RegistrationHandler) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := registration.VerifyRequest{Address: chi.URLParam(r, "address")}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.workflow.VerifyUser(ctx, req)
	status, body := outcome(err, rec)
	h.logOutcome(ctx, "verify user", requestID, err)
	httputil.WriteJSON(w, status, body)
}

func (h *RegistrationHandler) handleListUnverified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := unverifiedResponse{Users: []string{}}
	for entry, err := range h.workflow.ListUnverified(ctx) {
		if err != nil {
			h.logger.WarnContext(ctx, "failed to list unverified users",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		resp.Users = append(resp.Users, entry.Address.String())
	}
	resp.Empty = len(resp.Users) == 0
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *RegistrationHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.workflow.User(ctx, addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *RegistrationHandler) logOutcome(ctx context.Context, flow, requestID string, err error) {
	if err == nil {
		h.logger.InfoContext(ctx, flow+" confirmed", "request_id", requestID)
		return
	}
	h.logger.WarnContext(ctx, flow+" failed",
		"request_id", requestID,
		"error", err,
	)
}
