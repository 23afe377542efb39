// Package transaction drives one mutating ledger call through
// Idle -> Signing -> Pending -> Confirmed | Failed.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chainregistry/internal/ledger"
	"chainregistry/internal/platform/config"
	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

// ContractSource hands out the bound contract of the current session.
type ContractSource interface {
	Contract() (ledger.Contract, error)
}

// Task is single use. Submit may be called once; observers use Subscribe or
// Snapshot.
type Task struct {
	source   ContractSource
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	timeout  time.Duration
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	record    Record
	submitted bool
	subs      []chan Transition
}

type Option func(*Task)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Task) {
		t.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Task) {
		t.metrics = m
	}
}

// WithConfirmationTimeout bounds the wait for inclusion after broadcast.
func WithConfirmationTimeout(d time.Duration) Option {
	return func(t *Task) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithPollInterval sets how often the receipt is polled while Pending.
func WithPollInterval(d time.Duration) Option {
	return func(t *Task) {
		if d > 0 {
			t.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Task) {
		if now != nil {
			t.now = now
		}
	}
}

// New builds an idle task.
func New(source ContractSource, opts ...Option) *Task {
	t := &Task{
		source:   source,
		logger:   slog.Default(),
		tracer:   otel.Tracer("chainregistry/transaction"),
		timeout:  config.DefaultConfirmationTimeout,
		interval: config.DefaultPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	ts := t.now()
	t.record = Record{
		ID:        domain.NewRecordID(),
		Status:    StatusIdle,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	return t
}

// Snapshot returns a copy of the current record.
func (t *Task) Snapshot() Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.clone()
}

// Subscribe returns a channel of every later transition. It is closed after
// the terminal transition, or immediately when the task already finished.
func (t *Task) Subscribe() <-chan Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Buffer covers every transition a task can make.
	ch := make(chan Transition, len(allowedTransitions))
	if t.record.Status.Terminal() {
		close(ch)
		return ch
	}
	t.subs = append(t.subs, ch)
	return ch
}

// Submit signs and broadcasts kind with args, then waits for inclusion. It
// returns the terminal record; on Failed the error carries the same code as
// Record.Error. Cancelling ctx while Signing fails the task as user_rejected.
// Once Pending the wait ignores ctx and is bounded by the confirmation timeout.
func (t *Task) Submit(ctx context.Context, kind Kind, args []any) (*Record, error) {
	t.mu.Lock()
	if t.submitted {
		t.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeInvalidState, "transaction task already submitted")
	}
	t.submitted = true
	t.mu.Unlock()

	if n, ok := methodArity[kind]; !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown transaction kind %q", kind))
	} else if len(args) != n {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("%s takes %d arguments, got %d", kind, n, len(args)))
	}

	ctx, span := t.tracer.Start(ctx, "transaction.Submit", trace.WithAttributes(
		attribute.String("transaction.kind", string(kind)),
	))
	defer span.End()

	t.mu.Lock()
	t.record.Kind = kind
	t.record.Arguments = append([]any(nil), args...)
	span.SetAttributes(attribute.String("transaction.record_id", t.record.ID.String()))
	t.mu.Unlock()

	t.transition(StatusSigning, nil)
	t.metrics.incSubmitted(kind)

	contract, err := t.source.Contract()
	if err != nil {
		return t.fail(ctx, span, classify(err, dErrors.CodeNotConnected, "no ledger session is connected"))
	}

	txID, err := contract.Transact(ctx, string(kind), args...)
	if err != nil {
		if ctx.Err() != nil {
			return t.fail(ctx, span, dErrors.Wrap(ctx.Err(), dErrors.CodeUserRejected, "signing was abandoned"))
		}
		return t.fail(ctx, span, classify(err, dErrors.CodeSubmissionFailed, "transaction was not submitted"))
	}

	broadcastAt := t.now()
	t.transition(StatusPending, func(r *Record) {
		r.LedgerTxID = txID
	})
	span.SetAttributes(attribute.String("transaction.tx_id", txID))
	t.logger.InfoContext(ctx, "transaction broadcast",
		"kind", kind,
		"record_id", t.record.ID.String(),
		"tx_id", txID,
	)

	// A broadcast transaction cannot be recalled, so the wait outlives the caller.
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()

	receipt, err := t.awaitReceipt(waitCtx, contract, txID)
	if err != nil {
		return t.fail(ctx, span, dErrors.Wrap(err, dErrors.CodeConfirmationTimeout,
			fmt.Sprintf("transaction %s was submitted but not confirmed within %s", txID, t.timeout)))
	}
	if receipt.Reverted {
		return t.fail(ctx, span, dErrors.New(dErrors.CodeReverted,
			fmt.Sprintf("transaction %s was reverted by the contract", txID)))
	}

	rec := t.transition(StatusConfirmed, func(r *Record) {
		r.BlockNumber = receipt.BlockNumber
	})
	t.metrics.observeConfirmation(kind, t.now().Sub(broadcastAt).Seconds())
	t.metrics.observeOutcome(rec)
	span.SetStatus(codes.Ok, "")
	t.logger.InfoContext(ctx, "transaction confirmed",
		"kind", kind,
		"record_id", rec.ID.String(),
		"tx_id", txID,
		"block", receipt.BlockNumber,
	)
	return &rec, nil
}

func (t *Task) awaitReceipt(ctx context.Context, contract ledger.Contract, txID string) (*ledger.Receipt, error) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		receipt, err := contract.Receipt(ctx, txID)
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && ctx.Err() == nil:
			t.logger.DebugContext(ctx, "receipt lookup failed; will retry", "tx_id", txID, "error", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Task) fail(ctx context.Context, span trace.Span, err error) (*Record, error) {
	code := dErrors.CodeOf(err)
	reason := err.Error()
	if de, ok := dErrors.From(err); ok {
		reason = de.Message
	}
	rec := t.transition(StatusFailed, func(r *Record) {
		r.Error = code
		r.Reason = reason
	})
	t.metrics.observeOutcome(rec)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))

	level := slog.LevelWarn
	if code == dErrors.CodeUserRejected {
		level = slog.LevelInfo
	}
	t.logger.Log(ctx, level, "transaction failed",
		"kind", rec.Kind,
		"record_id", rec.ID.String(),
		"tx_id", rec.LedgerTxID,
		"error_kind", code,
		"error", err,
	)
	return &rec, err
}

// transition applies mutate and moves to next, notifying subscribers. Illegal
// moves are programming errors.
func (t *Task) transition(next Status, mutate func(*Record)) Record {
	t.mu.Lock()
	from := t.record.Status
	if !canTransition(from, next) {
		t.mu.Unlock()
		panic(fmt.Sprintf("transaction: illegal transition %s -> %s", from, next))
	}
	if mutate != nil {
		mutate(&t.record)
	}
	t.record.Status = next
	t.record.UpdatedAt = t.now()
	rec := t.record.clone()
	subs := t.subs
	if next.Terminal() {
		t.subs = nil
	}
	t.mu.Unlock()

	tr := Transition{From: from, To: next, Record: rec}
	for _, ch := range subs {
		ch <- tr
		if next.Terminal() {
			close(ch)
		}
	}
	return rec
}

var taskCodes = map[dErrors.Code]bool{
	dErrors.CodeUserRejected:      true,
	dErrors.CodeSubmissionFailed:  true,
	dErrors.CodeNotConnected:      true,
	dErrors.CodeWalletUnavailable: true,
}

// classify keeps a code the task can report and otherwise applies fallback.
func classify(err error, fallback dErrors.Code, msg string) error {
	if de, ok := dErrors.From(err); ok && taskCodes[de.Code] {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeUserRejected, "signing was abandoned")
	}
	return dErrors.Wrap(err, fallback, msg)
}
