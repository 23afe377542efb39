package audit

import (
	"context"
	"log/slog"
)

// Worker consumes events from a channel and hands them to write until the
// channel is closed.
type Worker struct {
	write  func(context.Context, Event) error
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(write func(context.Context, Event) error, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{write: write, inbox: inbox, logger: logger}
}

// Run drains inbox. Write failures are logged and do not stop the worker.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.write(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"action", event.Action,
				"record_id", event.RecordID,
				"error", err,
			)
		}
	}
}
