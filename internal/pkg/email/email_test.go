package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	to   []string
	body string
}

func newTestService(t *testing.T, failures int) (*emailServiceImpl, *[]sentMail, *int) {
	t.Helper()
	svc, err := NewEmailService(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@example.com",
		FromName: "Attendance",
	}, time.UTC)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	impl.backoff = time.Millisecond

	var sent []sentMail
	attempts := 0
	impl.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		attempts++
		if attempts <= failures {
			return errors.New("connection refused")
		}
		sent = append(sent, sentMail{addr: addr, to: to, body: string(msg)})
		return nil
	}
	return impl, &sent, &attempts
}

func TestSendAttendanceNotification(t *testing.T) {
	svc, sent, _ := newTestService(t, 0)

	err := svc.SendAttendanceNotification(context.Background(), "alice@example.com", notification.Message{
		Subject: "Attendance checkin Confirmation",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, []string{"alice@example.com"}, mail.to)
	assert.Contains(t, mail.body, "Subject: Attendance checkin Confirmation\r\n")
	assert.True(t, strings.HasSuffix(mail.body, "<p>hi</p>"))
}

func TestSendRetriesThenSucceeds(t *testing.T) {
	svc, sent, attempts := newTestService(t, 2)

	err := svc.SendPasswordResetCode(context.Background(), "jean@example.com", "Jean", "042133", time.Date(2024, 1, 10, 8, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, *attempts)
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].body, "042133")
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	svc, sent, attempts := newTestService(t, maxRetries)

	err := svc.SendAttendanceNotification(context.Background(), "alice@example.com", notification.Message{Subject: "s", HTML: "b"})
	assert.Error(t, err)
	assert.Equal(t, maxRetries, *attempts)
	assert.Empty(t, *sent)
}

func TestSendSkippedWithoutHost(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{}, nil)
	require.NoError(t, err)

	assert.NoError(t, svc.SendAttendanceNotification(context.Background(), "alice@example.com", notification.Message{}))
}

func TestTemplateGenerator_Compose(t *testing.T) {
	gen, err := NewTemplateGenerator(time.UTC)
	require.NoError(t, err)

	msg, err := gen.Compose(context.Background(), notification.Job{
		EmployeeName: "Alice Uwase",
		EventType:    attendance.EventCheckOut,
		OccurredAt:   time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "Attendance checkout Confirmation", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Alice Uwase,")
	assert.Contains(t, msg.HTML, "your check-out at 10 Jan 2024 17:00:00 UTC")
}
