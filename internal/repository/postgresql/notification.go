package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const notificationJobFields = `id, employee_email, employee_name, event_type, occurred_at, status,
	attempts, last_error, available_at, locked_until, created_at, updated_at`

type notificationJobRepository struct {
	db *database.DB
}

// NewNotificationJobRepository creates the Postgres-backed notification queue.
func NewNotificationJobRepository(db *database.DB) notification.JobRepository {
	return &notificationJobRepository{db: db}
}

// Enqueue inserts all jobs in one statement.
func (r *notificationJobRepository) Enqueue(ctx context.Context, jobs []notification.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(jobs))
	valueArgs := make([]interface{}, 0, len(jobs)*7)

	for i, job := range jobs {
		if job.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate notification job id: %w", err)
			}
			job.ID = id.String()
		}
		if job.Status == "" {
			job.Status = notification.StatusPending
		}

		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW(), NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		valueArgs = append(valueArgs,
			job.ID,
			job.EmployeeEmail,
			job.EmployeeName,
			string(job.EventType),
			job.OccurredAt,
			string(job.Status),
			job.AvailableAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notification_jobs (id, employee_email, employee_name, event_type, occurred_at, status, available_at, created_at, updated_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to enqueue notification jobs: %w", err)
	}
	return nil
}

// Claim leases due jobs with SKIP LOCKED so concurrent workers never share one.
func (r *notificationJobRepository) Claim(ctx context.Context, limit int, leaseUntil time.Time) ([]notification.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_jobs
		SET status = 'processing', attempts = attempts + 1, locked_until = $2, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE (status = 'pending' AND available_at <= NOW())
			   OR (status = 'processing' AND locked_until < NOW())
			ORDER BY available_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + notificationJobFields

	rows, err := q.Query(ctx, query, limit, leaseUntil.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to claim notification jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]notification.Job, 0, limit)
	for rows.Next() {
		job, err := scanNotificationJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notification jobs: %w", err)
	}
	return jobs, nil
}

// MarkSent implements notification.JobRepository.
func (r *notificationJobRepository) MarkSent(ctx context.Context, id string) error {
	return r.setStatus(ctx, `
		UPDATE notification_jobs
		SET status = 'sent', locked_until = NULL, last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
}

// Retry implements notification.JobRepository.
func (r *notificationJobRepository) Retry(ctx context.Context, id string, lastErr string, availableAt time.Time) error {
	return r.setStatus(ctx, `
		UPDATE notification_jobs
		SET status = 'pending', locked_until = NULL, last_error = $2, available_at = $3, updated_at = NOW()
		WHERE id = $1
	`, id, lastErr, availableAt.UTC())
}

// MarkFailed implements notification.JobRepository.
func (r *notificationJobRepository) MarkFailed(ctx context.Context, id string, lastErr string) error {
	return r.setStatus(ctx, `
		UPDATE notification_jobs
		SET status = 'failed', locked_until = NULL, last_error = $2, updated_at = NOW()
		WHERE id = $1
	`, id, lastErr)
}

func (r *notificationJobRepository) setStatus(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrJobNotFound
	}
	return nil
}

// PurgeSent implements notification.JobRepository.
func (r *notificationJobRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notification_jobs WHERE status = 'sent' AND updated_at < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge notification jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanNotificationJob(row pgx.Row) (notification.Job, error) {
	var job notification.Job
	var eventType, status string
	err := row.Scan(
		&job.ID, &job.EmployeeEmail, &job.EmployeeName, &eventType, &job.OccurredAt, &status,
		&job.Attempts, &job.LastError, &job.AvailableAt, &job.LockedUntil, &job.CreatedAt, &job.UpdatedAt,
	)
	job.EventType = attendance.EventType(eventType)
	job.Status = notification.Status(status)
	return job, err
}
