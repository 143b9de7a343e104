package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendAttendanceNotification(ctx context.Context, to string, msg notification.Message) error
	SendPasswordResetCode(ctx context.Context, to string, name string, code string, expiresAt time.Time) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	loc       *time.Location
	send      sendFunc
	backoff   time.Duration
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig, loc *time.Location) (EmailService, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		loc:       loc,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

// SendAttendanceNotification sends a composed check-in or check-out confirmation.
func (s *emailServiceImpl) SendAttendanceNotification(ctx context.Context, to string, msg notification.Message) error {
	return s.sendHTML(ctx, to, msg.Subject, msg.HTML)
}

type passwordResetEmailData struct {
	Name      string
	Code      string
	ExpiresAt string
}

// SendPasswordResetCode sends a password reset code to the user
func (s *emailServiceImpl) SendPasswordResetCode(ctx context.Context, to string, name string, code string, expiresAt time.Time) error {
	data := passwordResetEmailData{
		Name:      name,
		Code:      code,
		ExpiresAt: expiresAt.In(s.loc).Format("02 Jan 2006 15:04 MST"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "password_reset.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, "Reset Password", body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1s, 2s, 4s
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(s.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
