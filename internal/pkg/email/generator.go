package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

// TemplateGenerator composes attendance confirmations from the embedded
// template. It is the fallback when no other generator is configured or the
// configured one fails.
type TemplateGenerator struct {
	templates *template.Template
	loc       *time.Location
}

func NewTemplateGenerator(loc *time.Location) (*TemplateGenerator, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TemplateGenerator{templates: tmpl, loc: loc}, nil
}

type attendanceEmailData struct {
	Name   string
	Action string
	Time   string
}

// Compose implements notification.ContentGenerator.
func (g *TemplateGenerator) Compose(_ context.Context, job notification.Job) (notification.Message, error) {
	data := attendanceEmailData{
		Name:   job.EmployeeName,
		Action: actionLabel(job.EventType),
		Time:   job.OccurredAt.In(g.loc).Format("02 Jan 2006 15:04:05 MST"),
	}

	var body bytes.Buffer
	if err := g.templates.ExecuteTemplate(&body, "attendance_notification.html", data); err != nil {
		return notification.Message{}, fmt.Errorf("failed to execute template: %w", err)
	}

	return notification.Message{
		Subject: fmt.Sprintf("Attendance %s Confirmation", job.EventType),
		HTML:    body.String(),
	}, nil
}

func actionLabel(t attendance.EventType) string {
	switch t {
	case attendance.EventCheckIn:
		return "check-in"
	case attendance.EventCheckOut:
		return "check-out"
	default:
		return string(t)
	}
}
