package notification

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Job is a queued attendance notification. Attempts counts claims, so a job
// whose worker died mid-delivery is retried once its lease runs out.
type Job struct {
	ID            string
	EmployeeEmail string
	EmployeeName  string
	EventType     attendance.EventType
	OccurredAt    time.Time
	Status        Status
	Attempts      int
	LastError     *string
	AvailableAt   time.Time
	LockedUntil   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewJob builds a pending job for an attendance event.
func NewJob(id string, event attendance.Event, now time.Time) Job {
	return Job{
		ID:            id,
		EmployeeEmail: event.EmployeeEmail,
		EmployeeName:  event.EmployeeName,
		EventType:     event.Type,
		OccurredAt:    event.Timestamp,
		Status:        StatusPending,
		AvailableAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Message is a composed email ready to send.
type Message struct {
	Subject string
	HTML    string
}
