package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

const (
	purgeSessionsSpec      = "@hourly"
	purgeNotificationsSpec = "30 3 * * *"
)

// MaintenanceJobs keeps the revocation list and the notification queue from
// growing without bound.
type MaintenanceJobs struct {
	sessions  auth.SessionRepository
	jobs      notification.JobRepository
	retention time.Duration
	now       func() time.Time
}

func NewMaintenanceJobs(sessions auth.SessionRepository, jobs notification.JobRepository, retention time.Duration) *MaintenanceJobs {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &MaintenanceJobs{
		sessions:  sessions,
		jobs:      jobs,
		retention: retention,
		now:       time.Now,
	}
}

// Register adds the maintenance jobs to s.
func (m *MaintenanceJobs) Register(s *Scheduler) error {
	if err := s.AddJob("purge_revoked_sessions", purgeSessionsSpec, m.PurgeRevokedSessions); err != nil {
		return err
	}
	return s.AddJob("purge_sent_notifications", purgeNotificationsSpec, m.PurgeSentNotifications)
}

// PurgeRevokedSessions drops revocations for tokens that have expired anyway.
func (m *MaintenanceJobs) PurgeRevokedSessions(ctx context.Context) error {
	n, err := m.sessions.PurgeExpired(ctx, m.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Purged expired revoked sessions", "count", n)
	}
	return nil
}

// PurgeSentNotifications deletes delivered jobs older than the retention window.
func (m *MaintenanceJobs) PurgeSentNotifications(ctx context.Context) error {
	n, err := m.jobs.PurgeSent(ctx, m.now().UTC().Add(-m.retention))
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Purged sent notification jobs", "count", n)
	}
	return nil
}
