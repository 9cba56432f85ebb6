package river

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// EventWorker processes onboarding event jobs from the River queue.
// It records each milestone in the structured log; consumers that need the
// events downstream (welcome mail, billing) hang off this worker.
type EventWorker struct {
	river.WorkerDefaults[OnboardingEventArgs]
	logger *slog.Logger
}

// NewEventWorker creates a worker that logs to logger.
func NewEventWorker(logger *slog.Logger) *EventWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventWorker{logger: logger}
}

// Work processes a single event job. Unknown event kinds are cancelled
// rather than retried.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[OnboardingEventArgs]) error {
	args := job.Args
	switch domain.EventKind(args.Event) {
	case domain.EventUserRegistered:
		w.logger.InfoContext(ctx, "user registered",
			"user_id", args.UserID,
			"job_id", job.ID,
			"attempt", job.Attempt,
		)
	case domain.EventBotecoOnboarded:
		w.logger.InfoContext(ctx, "boteco onboarded",
			"user_id", args.UserID,
			"boteco_id", args.BotecoID,
			"boteco_username", args.BotecoUsername,
			"plan", args.Plan,
			"job_id", job.ID,
			"attempt", job.Attempt,
		)
	default:
		return river.JobCancel(fmt.Errorf("unknown onboarding event %q", args.Event))
	}
	return nil
}
