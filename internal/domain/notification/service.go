package notification

import (
	"context"
)

// ContentGenerator writes the subject and body for a job. Implementations may
// call out to a text generation service; the worker falls back to a template
// when one fails.
type ContentGenerator interface {
	Compose(ctx context.Context, job Job) (Message, error)
}

// Mailer delivers a composed message.
type Mailer interface {
	SendAttendanceNotification(ctx context.Context, to string, msg Message) error
}
