package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Backends and adapters return these
// (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: key does not exist in the backend
// - ErrInvalidState: object is in the wrong state for the requested operation
// - ErrUnavailable: backend or remote provider cannot be reached
// - ErrRevoked: a transient handle was released before use
//
// Input validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrRevoked      = errors.New("revoked")
)
