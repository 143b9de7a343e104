package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"golang.org/x/sync/errgroup"
)

// Config holds notification worker configuration
type Config struct {
	WorkerCount   int           // default: 2
	BatchSize     int           // default: 10
	PollInterval  time.Duration // default: 5 seconds
	LeaseDuration time.Duration // default: 1 minute
	MaxAttempts   int           // default: 5
	BaseBackoff   time.Duration // default: 30 seconds
}

const (
	deliveryTimeout    = 30 * time.Second
	bookkeepingTimeout = 10 * time.Second
	maxBackoff         = time.Hour
)

// Worker claims queued jobs, composes each message and hands it to the mailer.
// Jobs are delivered at least once: a worker that dies mid-delivery leaves a
// lease that expires and the job is claimed again.
type Worker struct {
	repo       notification.JobRepository
	mailer     notification.Mailer
	generators []notification.ContentGenerator
	config     Config
	now        func() time.Time

	group    errgroup.Group
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a worker. Generators are tried in order until one
// returns a non-empty message.
func NewWorker(repo notification.JobRepository, mailer notification.Mailer, cfg Config, generators ...notification.ContentGenerator) *Worker {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 30 * time.Second
	}

	return &Worker{
		repo:       repo,
		mailer:     mailer,
		generators: generators,
		config:     cfg,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the polling goroutines.
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		id := i
		w.group.Go(func() error {
			w.loop(id)
			return nil
		})
	}

	slog.Info("Notification worker started",
		"workers", w.config.WorkerCount,
		"batch_size", w.config.BatchSize,
		"poll_interval", w.config.PollInterval,
	)
}

// Stop signals the goroutines and waits for in-flight batches to finish.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	_ = w.group.Wait()
	slog.Info("Notification worker stopped")
}

func (w *Worker) loop(id int) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.config.LeaseDuration)
			if _, err := w.ProcessBatch(ctx); err != nil {
				slog.Error("Notification batch failed", "worker", id, "error", err)
			}
			cancel()
		case <-w.stopCh:
			return
		}
	}
}

// ProcessBatch claims one batch of due jobs and attempts each. It returns the
// number of jobs claimed. No delivery starts once ctx is done or the lease has
// run out; those jobs stay leased and are claimed again when it expires.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	leaseUntil := w.now().UTC().Add(w.config.LeaseDuration)

	jobs, err := w.repo.Claim(ctx, w.config.BatchSize, leaseUntil)
	if err != nil {
		return 0, fmt.Errorf("failed to claim notification jobs: %w", err)
	}

	for i, job := range jobs {
		if ctx.Err() != nil || !w.now().UTC().Before(leaseUntil) {
			slog.Warn("Notification lease exhausted, leaving jobs for the next claim",
				"remaining", len(jobs)-i,
			)
			break
		}
		w.deliver(ctx, job)
	}
	return len(jobs), nil
}

// record runs a status update detached from the batch deadline, so a
// delivered job is not left processing and mailed again.
func (w *Worker) record(ctx context.Context, fn func(ctx context.Context) error) error {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()
	return fn(recordCtx)
}

func (w *Worker) deliver(ctx context.Context, job notification.Job) {
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	err := w.send(sendCtx, job)
	if err == nil {
		if err := w.record(ctx, func(ctx context.Context) error { return w.repo.MarkSent(ctx, job.ID) }); err != nil {
			slog.Error("Failed to mark notification sent", "job_id", job.ID, "error", err)
		}
		return
	}

	if job.Attempts >= w.config.MaxAttempts {
		slog.Error("Notification delivery failed permanently",
			"job_id", job.ID,
			"attempts", job.Attempts,
			"error", err,
		)
		markErr := w.record(ctx, func(ctx context.Context) error { return w.repo.MarkFailed(ctx, job.ID, err.Error()) })
		if markErr != nil {
			slog.Error("Failed to mark notification failed", "job_id", job.ID, "error", markErr)
		}
		return
	}

	next := w.now().UTC().Add(w.backoff(job.Attempts))
	slog.Warn("Notification delivery failed, retrying",
		"job_id", job.ID,
		"attempts", job.Attempts,
		"next_attempt_at", next,
		"error", err,
	)
	retryErr := w.record(ctx, func(ctx context.Context) error { return w.repo.Retry(ctx, job.ID, err.Error(), next) })
	if retryErr != nil {
		slog.Error("Failed to reschedule notification", "job_id", job.ID, "error", retryErr)
	}
}

func (w *Worker) send(ctx context.Context, job notification.Job) error {
	msg, err := w.compose(ctx, job)
	if err != nil {
		return err
	}
	return w.mailer.SendAttendanceNotification(ctx, job.EmployeeEmail, msg)
}

func (w *Worker) compose(ctx context.Context, job notification.Job) (notification.Message, error) {
	var errs []error
	for _, gen := range w.generators {
		msg, err := gen.Compose(ctx, job)
		if err == nil && (strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.HTML) == "") {
			err = notification.ErrEmptyComposition
		}
		if err == nil {
			return msg, nil
		}
		slog.Warn("Content generator failed, trying next", "job_id", job.ID, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return notification.Message{}, notification.ErrEmptyComposition
	}
	return notification.Message{}, fmt.Errorf("failed to compose notification: %w", errors.Join(errs...))
}

// backoff doubles from BaseBackoff per attempt, capped at an hour.
func (w *Worker) backoff(attempts int) time.Duration {
	d := w.config.BaseBackoff
	for i := 1; i < attempts && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
