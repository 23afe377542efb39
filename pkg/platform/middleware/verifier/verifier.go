// Package verifier gates the verification routes behind a shared token.
package verifier

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"chainregistry/pkg/requestcontext"
)

// HeaderToken carries the verifier token.
const HeaderToken = "X-Verifier-Token"

// RequireToken admits requests whose X-Verifier-Token matches expectedToken
// and marks their context as verifier requests.
func RequireToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "verifier token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"verifier token required"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithVerifier(ctx)))
		})
	}
}
