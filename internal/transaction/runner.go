package transaction

import "context"

// Runner creates a fresh Task for every submission with shared options.
type Runner struct {
	source ContractSource
	opts   []Option
}

func NewRunner(source ContractSource, opts ...Option) *Runner {
	return &Runner{source: source, opts: opts}
}

// NewTask returns an idle task for callers that want to observe transitions
// before submitting.
func (r *Runner) NewTask() *Task {
	return New(r.source, r.opts...)
}

// Submit runs kind with args on a new task.
func (r *Runner) Submit(ctx context.Context, kind Kind, args []any) (*Record, error) {
	return r.NewTask().Submit(ctx, kind, args)
}
