package notification

import (
	"context"
	"time"
)

// JobRepository is the durable queue behind attendance notifications.
type JobRepository interface {
	Enqueue(ctx context.Context, jobs []Job) error

	// Claim leases up to limit due jobs until leaseUntil. Pending jobs and
	// processing jobs with an expired lease are both due.
	Claim(ctx context.Context, limit int, leaseUntil time.Time) ([]Job, error)

	MarkSent(ctx context.Context, id string) error

	// Retry returns a job to pending, due again at availableAt.
	Retry(ctx context.Context, id string, lastErr string, availableAt time.Time) error

	MarkFailed(ctx context.Context, id string, lastErr string) error

	// PurgeSent deletes delivered jobs last updated before the cutoff.
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}
