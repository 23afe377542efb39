package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"chainregistry/internal/platform/metrics"
	"chainregistry/internal/platform/middleware"
	"chainregistry/pkg/platform/httputil"
	"chainregistry/pkg/platform/middleware/requesttime"
	"chainregistry/pkg/platform/middleware/verifier"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects what NewRouter wires. Nil handlers leave their routes
// unmounted.
type RouterConfig struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	VerifierToken string

	Registration *RegistrationHandler
	Documents    *DocumentHandler
	Session      *SessionHandler
	Audit        *AuditHandler

	// Health checks run on /healthz; any failure turns it into a 503.
	Health map[string]HealthCheck
}

// NewRouter wires all public endpoints. The handlers stay thin and delegate to
// domain services.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.LatencyMiddleware(cfg.Metrics))

	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", healthHandler(cfg.Health))

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		if cfg.Session != nil {
			cfg.Session.Register(api)
		}
		if cfg.Registration != nil {
			cfg.Registration.Register(api)
		}

		api.Group(func(v chi.Router) {
			v.Use(verifier.RequireToken(cfg.VerifierToken, cfg.Logger))
			if cfg.Registration != nil {
				cfg.Registration.RegisterVerifier(v)
			}
			if cfg.Documents != nil {
				cfg.Documents.Register(v)
			}
			if cfg.Audit != nil {
				cfg.Audit.Register(v)
			}
		})
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				body[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			body[name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
