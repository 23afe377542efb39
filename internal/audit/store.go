package audit

import "context"

// Sink receives every published event.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a Sink that can also be read back.
type Store interface {
	Sink
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
