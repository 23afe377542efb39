package testutil

import (
	"context"
	"time"

	"chainregistry/pkg/requestcontext"
)

// RequestContext returns a context carrying what the HTTP middleware chain
// would set, for workflow tests that bypass the router.
func RequestContext(requestID string, now time.Time) context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), requestID)
	return requestcontext.WithTime(ctx, now)
}
