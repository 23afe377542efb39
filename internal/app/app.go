// Package app assembles the registry services from configuration. The HTTP
// server and the CLI share it so both run the same workflow stack.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"chainregistry/internal/audit"
	kafkasink "chainregistry/internal/audit/sink/kafka"
	auditmemory "chainregistry/internal/audit/store/memory"
	auditpostgres "chainregistry/internal/audit/store/postgres"
	"chainregistry/internal/documents"
	docfile "chainregistry/internal/documents/store/file"
	docmemory "chainregistry/internal/documents/store/memory"
	docredis "chainregistry/internal/documents/store/redis"
	"chainregistry/internal/ledger"
	"chainregistry/internal/ledger/ethereum"
	"chainregistry/internal/platform/config"
	"chainregistry/internal/platform/metrics"
	"chainregistry/internal/platform/redis"
	"chainregistry/internal/registration"
	"chainregistry/internal/transaction"
)

// App holds the wired services. Close releases what Build opened.
type App struct {
	Config       config.Server
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Documents    *documents.Store
	Session      *ledger.Manager
	Runner       *transaction.Runner
	Audit        *audit.Publisher
	Registration *registration.Service

	health  map[string]func(context.Context) error
	closers []func()
}

type options struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	approver   ethereum.Approver
	auditAsync int
	provider   ledger.Provider
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer scopes every metric to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithApprover sets how wallet prompts are answered. The server approves
// automatically; the CLI asks on the terminal.
func WithApprover(a ethereum.Approver) Option {
	return func(o *options) { o.approver = a }
}

// WithAsyncAudit buffers audit events instead of writing them inline.
func WithAsyncAudit(buffer int) Option {
	return func(o *options) { o.auditAsync = buffer }
}

// WithProvider bypasses dialing the configured ledger.
func WithProvider(p ledger.Provider) Option {
	return func(o *options) { o.provider = p }
}

// Build wires the stack described by cfg.
func Build(ctx context.Context, cfg config.Server, opts ...Option) (_ *App, err error) {
	o := options{
		logger:     slog.Default(),
		registerer: prometheus.DefaultRegisterer,
		approver:   ethereum.AutoApprove,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:  cfg,
		Logger:  o.logger,
		Metrics: metrics.NewWith(o.registerer),
		health:  make(map[string]func(context.Context) error),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if a.Documents, err = a.buildDocuments(ctx, cfg, o); err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		if provider, err = a.buildProvider(ctx, cfg.Ledger, o); err != nil {
			return nil, err
		}
	}
	a.Session = ledger.NewManager(provider,
		ledger.WithLogger(o.logger),
		ledger.WithMetrics(a.Metrics),
		ledger.WithConnectTimeout(cfg.Ledger.ConnectTimeout),
	)

	a.Runner = transaction.NewRunner(a.Session,
		transaction.WithLogger(o.logger),
		transaction.WithMetrics(transaction.NewMetricsWith(o.registerer)),
		transaction.WithConfirmationTimeout(cfg.Ledger.ConfirmationTimeout),
		transaction.WithPollInterval(cfg.Ledger.PollInterval),
	)

	if a.Audit, err = a.buildAudit(ctx, cfg.Audit, o); err != nil {
		return nil, err
	}

	a.Registration = registration.New(a.Documents, a.Session, a.Runner,
		registration.WithLogger(o.logger),
		registration.WithAuditPublisher(a.Audit),
		registration.WithMetrics(registration.NewMetricsWith(o.registerer)),
		registration.WithQueryTTL(cfg.QueryTTL),
	)
	return a, nil
}

func (a *App) buildDocuments(ctx context.Context, cfg config.Server, o options) (*documents.Store, error) {
	var backend documents.Backend
	switch cfg.Content.Backend {
	case "", "memory":
		if cfg.Content.Capacity > 0 {
			bounded, err := docmemory.NewBounded(cfg.Content.Capacity)
			if err != nil {
				return nil, fmt.Errorf("create bounded document store: %w", err)
			}
			backend = bounded
		} else {
			backend = docmemory.New()
		}
	case "file":
		fs, err := docfile.New(cfg.Content.Dir)
		if err != nil {
			return nil, fmt.Errorf("create file document store: %w", err)
		}
		backend = fs
	case "redis":
		client, err := redis.New(ctx, cfg.Redis)
		if errors.Is(err, redis.ErrNotConfigured) {
			return nil, errors.New("CONTENT_BACKEND=redis requires REDIS_URL")
		}
		if err != nil {
			return nil, fmt.Errorf("connect document redis: %w", err)
		}
		o.logger.InfoContext(ctx, "document store on redis", "addr", client.Addr())
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.health["redis"] = client.Health
		backend = docredis.New(client.Client)
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.Content.Backend)
	}

	return documents.New(backend,
		documents.WithLogger(o.logger),
		documents.WithMetrics(documents.NewMetricsWith(o.registerer)),
		documents.WithValidator(documents.NewValidator(cfg.Content.MaxBytes, cfg.Content.ValidatePDF)),
	)
}

// buildProvider returns nil when no signer key is configured; the session
// then reports the wallet as unavailable.
func (a *App) buildProvider(ctx context.Context, cfg config.LedgerConfig, o options) (ledger.Provider, error) {
	if cfg.SignerKey == "" {
		o.logger.WarnContext(ctx, "no ledger signer key configured; wallet unavailable")
		return nil, nil
	}
	wallet, err := ethereum.Dial(ctx, cfg,
		ethereum.WithApprover(o.approver),
		ethereum.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, wallet.Close)
	o.logger.InfoContext(ctx, "ledger wallet ready",
		"address", wallet.Address(),
		"rpc_url", cfg.RPCURL,
	)
	return wallet, nil
}

func (a *App) buildAudit(ctx context.Context, cfg config.AuditConfig, o options) (*audit.Publisher, error) {
	var store audit.Store = auditmemory.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := auditpostgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.health["audit_db"] = db.PingContext
		pg := auditpostgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = pg
	}

	pubOpts := []audit.Option{audit.WithLogger(o.logger)}
	if o.auditAsync > 0 {
		pubOpts = append(pubOpts, audit.WithAsyncBuffer(o.auditAsync))
	}
	if len(cfg.KafkaBrokers) > 0 {
		client, err := kafkasink.NewClient(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.health["audit_kafka"] = client.Ping
		pubOpts = append(pubOpts, audit.WithSink(kafkasink.New(client, cfg.KafkaTopic)))
	}

	publisher := audit.NewPublisher(store, pubOpts...)
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}

// HealthChecks returns the dependency probes for /healthz.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	out := make(map[string]func(context.Context) error, len(a.health))
	for name, check := range a.health {
		out[name] = check
	}
	return out
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
