package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chainregistry/pkg/platform/circuit"
)

var (
	// ErrBufferFull is returned by an async publisher when its buffer is full.
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
)

// Publisher appends events to a Store and fans them out to extra sinks. It is
// synchronous unless WithAsyncBuffer is given.
type Publisher struct {
	store  Store
	sinks  []guardedSink
	logger *slog.Logger
	now    func() time.Time

	buffer int
	inbox  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit enqueue onto a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.buffer = n
	}
}

// guardedSink skips a secondary destination while its breaker is open so an
// unreachable broker does not slow every append.
type guardedSink struct {
	sink    Sink
	breaker *circuit.Breaker
}

// WithSink adds a secondary destination such as a Kafka topic. Breaker
// options tune when the sink is skipped after repeated failures.
func WithSink(s Sink, breaker ...circuit.Option) Option {
	return func(p *Publisher) {
		if s != nil {
			name := fmt.Sprintf("audit_sink_%d", len(p.sinks))
			p.sinks = append(p.sinks, guardedSink{sink: s, breaker: circuit.New(name, breaker...)})
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer > 0 {
		p.inbox = make(chan Event, p.buffer)
		p.done = make(chan struct{})
		w := NewWorker(p.write, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			w.Run(context.Background())
		}()
	}
	return p
}

// Emit records event, filling in ID and Timestamp when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if p.inbox == nil {
		return p.write(ctx, event)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full; dropping event", "action", event.Action)
		return ErrBufferFull
	}
}

func (p *Publisher) write(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, s := range p.sinks {
		p.fanOut(ctx, s, event)
	}
	return nil
}

// fanOut never fails the write; the primary store already holds the event.
func (p *Publisher) fanOut(ctx context.Context, s guardedSink, event Event) {
	if !s.breaker.Allow() {
		return
	}
	if err := s.sink.Append(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "audit sink append failed", "sink", s.breaker.Name(), "action", event.Action, "error", err)
		if _, change := s.breaker.RecordFailure(); change.Opened {
			p.logger.ErrorContext(ctx, "audit sink disabled after repeated failures", "sink", s.breaker.Name())
		}
		return
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "audit sink recovered", "sink", s.breaker.Name())
	}
}

// ListRecent returns up to limit events, newest first.
func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close drains pending async events. It is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()
	if p.done != nil {
		<-p.done
	}
}
