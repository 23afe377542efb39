package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainregistry/internal/app"
	"chainregistry/internal/platform/config"
	"chainregistry/internal/platform/httpserver"
	"chainregistry/internal/platform/logger"
	httptransport "chainregistry/internal/transport/http"
)

const auditBuffer = 256

// main wires dependencies and owns the server lifecycle. Business logic lives in
// internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg,
		app.WithLogger(log),
		app.WithAsyncAudit(auditBuffer),
	)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	health := make(map[string]httptransport.HealthCheck)
	for name, check := range a.HealthChecks() {
		health[name] = check
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:        log,
		Metrics:       a.Metrics,
		VerifierToken: cfg.VerifierToken,
		Registration:  httptransport.NewRegistrationHandler(a.Registration, log),
		Documents:     httptransport.NewDocumentHandler(a.Documents, log),
		Session:       httptransport.NewSessionHandler(a.Session, log),
		Audit:         httptransport.NewAuditHandler(a.Audit, log),
		Health:        health,
	})

	srv := httpserver.New(cfg.Addr, router, cfg.Ledger.ConfirmationTimeout)

	log.Info("starting chainregistry", "addr", cfg.Addr, "content_backend", cfg.Content.Backend)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	case <-ctx.Done():
	}

	// In-flight registrations may be waiting on confirmation.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.ConfirmationTimeout+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	a.Session.Disconnect()
	log.Info("chainregistry stopped")
}
