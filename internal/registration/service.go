// Package registration orchestrates the three ledger workflows (register user,
// add land, verify user) and the verifier's read side.
package registration

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DocumentStager,Session,Submitter,AuditPublisher

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"chainregistry/internal/audit"
	"chainregistry/internal/ledger"
	"chainregistry/internal/platform/config"
	"chainregistry/internal/transaction"
	"chainregistry/pkg/attrs"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
	pstrings "chainregistry/pkg/platform/strings"
	"chainregistry/pkg/requestcontext"
)

// DocumentStager stages raw documents and returns their content hash.
type DocumentStager interface {
	Stage(ctx context.Context, raw []byte) (domain.ContentHash, error)
}

// Session is the connected ledger session.
type Session interface {
	SignMessage(ctx context.Context, text string) (string, error)
	Account() (domain.Address, error)
	Contract() (ledger.Contract, error)
}

// Submitter runs one transaction to a terminal state.
type Submitter interface {
	Submit(ctx context.Context, kind transaction.Kind, args []any) (*transaction.Record, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the workflows. Each call gets its own transaction record.
type Service struct {
	documents      DocumentStager
	session        Session
	submitter      Submitter
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *Metrics
	tracer         trace.Tracer

	cache *queryCache
	loads singleflight.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithQueryTTL bounds how long read results are served from cache.
func WithQueryTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = newQueryCache(ttl)
	}
}

// New constructs a Service.
func New(documents DocumentStager, session Session, submitter Submitter, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		session:   session,
		submitter: submitter,
		logger:    slog.Default(),
		tracer:    otel.Tracer("chainregistry/registration"),
		cache:     newQueryCache(config.DefaultQueryTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AttestationMessage is the text the registrant signs.
func AttestationMessage(at time.Time, aadhar, pan domain.ContentHash) string {
	return fmt.Sprintf("I confirm my documents at %s (aadhar %s, pan %s)",
		at.UTC().Format(time.RFC3339), aadhar, pan)
}

// RegisterUser stages both documents, obtains the attestation signature and
// submits registerUser with the content hashes. The result reports how far
// the flow got even when err is non-nil.
func (s *Service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*RegisterUserResult, error) {
	ctx, span := s.tracer.Start(ctx, "registration.RegisterUser")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, s.finish(span, "register_user", err)
	}

	result := &RegisterUserResult{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.documents.Stage(gctx, req.Aadhar)
		if err != nil {
			return stageError("aadhar", err)
		}
		result.AadharHash = h
		return nil
	})
	g.Go(func() error {
		h, err := s.documents.Stage(gctx, req.PAN)
		if err != nil {
			return stageError("pan", err)
		}
		result.PANHash = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.finish(span, "register_user", err)
	}
	span.SetAttributes(
		attribute.String("document.aadhar", result.AadharHash.Short()),
		attribute.String("document.pan", result.PANHash.Short()),
	)

	msg := AttestationMessage(requestcontext.Now(ctx), result.AadharHash, result.PANHash)
	sig, err := s.session.SignMessage(ctx, msg)
	if err != nil {
		return result, s.finish(span, "register_user", err)
	}
	result.Attestation = Attestation{Message: msg, Signature: sig}

	rec, err := s.submitter.Submit(ctx, transaction.KindRegisterUser, []any{
		req.Name,
		int64(req.Age),
		req.City,
		result.AadharHash.String(),
		result.PANHash.String(),
		req.Phone,
		req.Email,
	})
	result.Record = rec
	s.auditOutcome(ctx, audit.ActionUserRegistrationSubmitted, rec, "")
	if err != nil {
		return result, s.finish(span, "register_user", err)
	}

	s.invalidate(keyUnverified)
	s.refetchUnverified(ctx)
	return result, s.finish(span, "register_user", nil)
}

// AddLand submits a land record.
func (s *Service) AddLand(ctx context.Context, req AddLandRequest) (*transaction.Record, error) {
	ctx, span := s.tracer.Start(ctx, "registration.AddLand")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, s.finish(span, "add_land", err)
	}
	rec, err := s.submitter.Submit(ctx, transaction.KindAddLand, req.Arguments())
	s.auditOutcome(ctx, audit.ActionLandRecordSubmitted, rec, "")
	return rec, s.finish(span, "add_land", err)
}

// VerifyUser approves a pending user. On confirmation the user's cached record
// and the pending list are invalidated and the list is reloaded once.
func (s *Service) VerifyUser(ctx context.Context, req VerifyRequest) (*transaction.Record, error) {
	ctx, span := s.tracer.Start(ctx, "registration.VerifyUser")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, s.finish(span, "verify_user", err)
	}
	addr := req.ParsedAddress()
	span.SetAttributes(attribute.String("user.address", addr.String()))

	rec, err := s.submitter.Submit(ctx, transaction.KindVerifyUser, []any{addr})
	s.auditOutcome(ctx, audit.ActionUserVerified, rec, addr.String())
	if err != nil {
		return rec, s.finish(span, "verify_user", err)
	}

	s.invalidate(userKey(addr), keyUnverified)
	s.refetchUnverified(ctx)
	return rec, s.finish(span, "verify_user", nil)
}

// ListUnverified yields pending users with sentinel and duplicate addresses
// removed. Each range re-reads through the query cache.
func (s *Service) ListUnverified(ctx context.Context) iter.Seq2[VerificationEntry, error] {
	return func(yield func(VerificationEntry, error) bool) {
		addrs, err := s.unverified(ctx)
		if err != nil {
			yield(VerificationEntry{}, err)
			return
		}
		for _, a := range addrs {
			if !yield(VerificationEntry{Address: a}, nil) {
				return
			}
		}
	}
}

// User reads the ledger's record for addr.
func (s *Service) User(ctx context.Context, addr domain.Address) (*UserRecord, error) {
	key := userKey(addr)
	if v, ok := s.cache.get(key); ok {
		s.metrics.incCache("hit")
		rec := v.(UserRecord)
		return &rec, nil
	}
	s.metrics.incCache("miss")

	gen := s.cache.generation(key)
	v, err, _ := s.loads.Do(flightKey(key, gen), func() (any, error) {
		contract, err := s.session.Contract()
		if err != nil {
			return nil, err
		}
		out, err := contract.Call(ctx, "UserMapping", addr)
		if err != nil {
			s.metrics.incQuery("UserMapping", "error")
			return nil, dErrors.Wrap(err, dErrors.CodeSubmissionFailed, "failed to read user record")
		}
		rec, err := decodeUser(out)
		if err != nil {
			s.metrics.incQuery("UserMapping", "malformed")
			return nil, err
		}
		s.metrics.incQuery("UserMapping", "ok")
		if rec.Address == "" || rec.Address.IsSentinel() {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no user registered at %s", addr))
		}
		s.cache.set(key, gen, *rec)
		return *rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := v.(UserRecord)
	return &rec, nil
}

func (s *Service) unverified(ctx context.Context) ([]domain.Address, error) {
	if v, ok := s.cache.get(keyUnverified); ok {
		s.metrics.incCache("hit")
		return v.([]domain.Address), nil
	}
	s.metrics.incCache("miss")
	return s.loadUnverified(ctx)
}

func (s *Service) loadUnverified(ctx context.Context) ([]domain.Address, error) {
	gen := s.cache.generation(keyUnverified)
	v, err, _ := s.loads.Do(flightKey(keyUnverified, gen), func() (any, error) {
		contract, err := s.session.Contract()
		if err != nil {
			return nil, err
		}
		out, err := contract.Call(ctx, "getUnverifiedUsers")
		if err != nil {
			s.metrics.incQuery("getUnverifiedUsers", "error")
			return nil, dErrors.Wrap(err, dErrors.CodeSubmissionFailed, "failed to read pending users")
		}
		if len(out) != 1 {
			s.metrics.incQuery("getUnverifiedUsers", "malformed")
			return nil, dErrors.New(dErrors.CodeMalformed, "unexpected getUnverifiedUsers result")
		}
		raw, ok := out[0].([]domain.Address)
		if !ok {
			s.metrics.incQuery("getUnverifiedUsers", "malformed")
			return nil, dErrors.New(dErrors.CodeMalformed, "unexpected getUnverifiedUsers result")
		}
		s.metrics.incQuery("getUnverifiedUsers", "ok")
		addrs := filterPending(raw)
		s.cache.set(keyUnverified, gen, addrs)
		return addrs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Address), nil
}

// filterPending drops sentinel padding and repeated addresses, keeping order.
func filterPending(raw []domain.Address) []domain.Address {
	return pstrings.DedupeBy(raw, func(a domain.Address) string {
		if a.IsSentinel() {
			return ""
		}
		return pstrings.FoldKey(a)
	})
}

func (s *Service) invalidate(keys ...string) {
	s.cache.invalidate(keys...)
	s.metrics.incCache("invalidate")
}

// refetchUnverified reloads the pending list after a confirmed change. A
// failure only means the next read goes to the ledger.
func (s *Service) refetchUnverified(ctx context.Context) {
	if _, err := s.loadUnverified(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to refetch pending users", "error", err)
	}
}

func (s *Service) finish(span trace.Span, flow string, err error) error {
	if err != nil {
		code := dErrors.CodeOf(err)
		s.metrics.incWorkflow(flow, string(code))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		return err
	}
	s.metrics.incWorkflow(flow, "confirmed")
	span.SetStatus(codes.Ok, "")
	return nil
}

// auditOutcome records a terminal transaction. Records that never left Idle
// are not audited.
func (s *Service) auditOutcome(ctx context.Context, action audit.Action, rec *transaction.Record, subject string) {
	if rec == nil {
		return
	}
	if rec.Status == transaction.StatusFailed {
		action = audit.ActionTransactionFailed
	}
	actor, _ := s.session.Account()
	s.logAudit(ctx, action,
		"subject", subject,
		"actor", actor.String(),
		"kind", rec.Kind.String(),
		"record_id", rec.ID.String(),
		"tx_id", rec.LedgerTxID,
		"status", string(rec.Status),
		"error_kind", string(rec.Error),
		"reason", rec.Reason,
	)
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(action), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	fields := attrs.Strings(attributes)
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    action,
		Actor:     fields["actor"],
		Subject:   fields["subject"],
		Kind:      fields["kind"],
		RecordID:  fields["record_id"],
		TxID:      fields["tx_id"],
		Status:    fields["status"],
		ErrorKind: fields["error_kind"],
		Reason:    fields["reason"],
		RequestID: requestID,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event", "event", string(action), "error", err)
	}
}

func stageError(field string, err error) error {
	code := dErrors.CodeOf(err)
	msg := err.Error()
	if de, ok := dErrors.From(err); ok {
		msg = de.Message
	}
	return dErrors.Wrap(err, code, field+" document: "+msg)
}

// decodeUser maps UserMapping outputs in declaration order.
func decodeUser(out []any) (*UserRecord, error) {
	malformed := dErrors.New(dErrors.CodeMalformed, "unexpected UserMapping result")
	if len(out) != 9 {
		return nil, malformed
	}
	addr, ok1 := out[0].(domain.Address)
	name, ok2 := out[1].(string)
	age, ok3 := out[2].(*big.Int)
	city, ok4 := out[3].(string)
	aadhar, ok5 := out[4].(string)
	pan, ok6 := out[5].(string)
	phone, ok7 := out[6].(string)
	email, ok8 := out[7].(string)
	verified, ok9 := out[8].(bool)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8 && ok9) || !age.IsUint64() {
		return nil, malformed
	}
	return &UserRecord{
		Address:    addr,
		Name:       name,
		Age:        age.Uint64(),
		City:       city,
		AadharHash: aadhar,
		PANHash:    pan,
		Phone:      phone,
		Email:      email,
		Verified:   verified,
	}, nil
}
