// Package requestcontext carries request-scoped values without net/http.
//
// Middleware sets them; workflows read them so the attestation message, the
// audit record and the log lines of one request agree on its ID and clock.
// The CLI never sets them and gets the zero values and the wall clock.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	requestTimeKey
	clientIPKey
	verifierKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// RequestID returns the correlation ID, or "" outside an HTTP request.
func RequestID(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func ClientIP(ctx context.Context) string {
	ip, _ := value[string](ctx, clientIPKey)
	return ip
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// IsVerifier reports whether the request passed the verifier token check.
func IsVerifier(ctx context.Context) bool {
	ok, _ := value[bool](ctx, verifierKey)
	return ok
}

func WithVerifier(ctx context.Context) context.Context {
	return context.WithValue(ctx, verifierKey, true)
}

// Now returns the time pinned at the start of the request, or time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
