package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Dispatcher queues attendance events as notification jobs. Delivery happens
// later in a Worker, so a slow or failing mail server never blocks check-in.
type Dispatcher struct {
	repo notification.JobRepository
	now  func() time.Time
}

func NewDispatcher(repo notification.JobRepository) *Dispatcher {
	return &Dispatcher{repo: repo, now: time.Now}
}

// Dispatch implements attendance.EventDispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...attendance.Event) error {
	if len(events) == 0 {
		return nil
	}

	now := d.now().UTC()
	jobs := make([]notification.Job, 0, len(events))
	for _, event := range events {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate job id: %w", err)
		}
		jobs = append(jobs, notification.NewJob(id.String(), event, now))
	}

	if err := d.repo.Enqueue(ctx, jobs); err != nil {
		return fmt.Errorf("failed to enqueue notification jobs: %w", err)
	}

	slog.Debug("Notification jobs queued", "count", len(jobs))
	return nil
}
