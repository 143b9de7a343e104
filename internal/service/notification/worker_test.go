package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryJobRepository struct {
	mu   sync.Mutex
	jobs map[string]*notification.Job
	now  func() time.Time
}

func newMemoryJobRepository(now func() time.Time) *memoryJobRepository {
	return &memoryJobRepository{jobs: make(map[string]*notification.Job), now: now}
}

func (m *memoryJobRepository) Enqueue(_ context.Context, jobs []notification.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range jobs {
		job := jobs[i]
		m.jobs[job.ID] = &job
	}
	return nil
}

func (m *memoryJobRepository) Claim(_ context.Context, limit int, leaseUntil time.Time) ([]notification.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var out []notification.Job
	for _, job := range m.jobs {
		if len(out) == limit {
			break
		}
		due := job.Status == notification.StatusPending && !job.AvailableAt.After(now)
		expired := job.Status == notification.StatusProcessing && job.LockedUntil != nil && job.LockedUntil.Before(now)
		if !due && !expired {
			continue
		}
		job.Status = notification.StatusProcessing
		job.Attempts++
		lease := leaseUntil
		job.LockedUntil = &lease
		out = append(out, *job)
	}
	return out, nil
}

func (m *memoryJobRepository) set(id string, fn func(*notification.Job)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return notification.ErrJobNotFound
	}
	fn(job)
	return nil
}

func (m *memoryJobRepository) MarkSent(_ context.Context, id string) error {
	return m.set(id, func(j *notification.Job) { j.Status = notification.StatusSent; j.LockedUntil = nil })
}

func (m *memoryJobRepository) Retry(_ context.Context, id string, lastErr string, availableAt time.Time) error {
	return m.set(id, func(j *notification.Job) {
		j.Status = notification.StatusPending
		j.LastError = &lastErr
		j.AvailableAt = availableAt
		j.LockedUntil = nil
	})
}

func (m *memoryJobRepository) MarkFailed(_ context.Context, id string, lastErr string) error {
	return m.set(id, func(j *notification.Job) {
		j.Status = notification.StatusFailed
		j.LastError = &lastErr
		j.LockedUntil = nil
	})
}

func (m *memoryJobRepository) PurgeSent(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (m *memoryJobRepository) only(t *testing.T) notification.Job {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.jobs, 1)
	for _, job := range m.jobs {
		return *job
	}
	return notification.Job{}
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendAttendanceNotification(ctx context.Context, to string, msg notification.Message) error {
	return m.Called(ctx, to, msg).Error(0)
}

type staticGenerator struct {
	msg notification.Message
	err error
}

func (s staticGenerator) Compose(context.Context, notification.Job) (notification.Message, error) {
	return s.msg, s.err
}

var confirmation = notification.Message{Subject: "Attendance checkin Confirmation", HTML: "<p>ok</p>"}

func checkInEvent() attendance.Event {
	return attendance.Event{
		EmployeeEmail: "alice@example.com",
		EmployeeName:  "Alice Uwase",
		Type:          attendance.EventCheckIn,
		Timestamp:     time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func setup(t *testing.T, cfg Config, generators ...notification.ContentGenerator) (*Worker, *memoryJobRepository, *mockMailer, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 1, 10, 8, 0, 1, 0, time.UTC)}
	repo := newMemoryJobRepository(clk.Now)
	mailer := new(mockMailer)

	dispatcher := NewDispatcher(repo)
	dispatcher.now = clk.Now
	require.NoError(t, dispatcher.Dispatch(context.Background(), checkInEvent()))

	worker := NewWorker(repo, mailer, cfg, generators...)
	worker.now = clk.Now
	return worker, repo, mailer, clk
}

func TestDispatcher_EnqueuesOneJobPerEvent(t *testing.T) {
	repo := newMemoryJobRepository(time.Now)
	dispatcher := NewDispatcher(repo)

	require.NoError(t, dispatcher.Dispatch(context.Background()))
	assert.Empty(t, repo.jobs)

	out := checkInEvent()
	out.Type = attendance.EventCheckOut
	require.NoError(t, dispatcher.Dispatch(context.Background(), checkInEvent(), out))
	assert.Len(t, repo.jobs, 2)
	for _, job := range repo.jobs {
		assert.Equal(t, notification.StatusPending, job.Status)
		assert.Equal(t, "alice@example.com", job.EmployeeEmail)
	}
}

func TestWorker_DeliversAndMarksSent(t *testing.T) {
	worker, repo, mailer, _ := setup(t, Config{}, staticGenerator{msg: confirmation})
	mailer.On("SendAttendanceNotification", mock.Anything, "alice@example.com", confirmation).Return(nil).Once()

	n, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job := repo.only(t)
	assert.Equal(t, notification.StatusSent, job.Status)
	assert.Equal(t, 1, job.Attempts)
	mailer.AssertExpectations(t)

	n, err = worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWorker_FallsBackToNextGenerator(t *testing.T) {
	worker, repo, mailer, _ := setup(t, Config{},
		staticGenerator{err: errors.New("upstream unavailable")},
		staticGenerator{msg: notification.Message{Subject: " ", HTML: "<p>blank subject</p>"}},
		staticGenerator{msg: confirmation},
	)
	mailer.On("SendAttendanceNotification", mock.Anything, "alice@example.com", confirmation).Return(nil).Once()

	_, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, notification.StatusSent, repo.only(t).Status)
	mailer.AssertExpectations(t)
}

func TestWorker_RetriesWithBackoffThenFails(t *testing.T) {
	worker, repo, mailer, clk := setup(t, Config{MaxAttempts: 3, BaseBackoff: time.Minute}, staticGenerator{msg: confirmation})
	mailer.On("SendAttendanceNotification", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	_, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	job := repo.only(t)
	assert.Equal(t, notification.StatusPending, job.Status)
	assert.Equal(t, clk.Now().Add(time.Minute), job.AvailableAt)
	require.NotNil(t, job.LastError)
	assert.Contains(t, *job.LastError, "smtp down")

	// Not due yet.
	n, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.Advance(time.Minute)
	_, err = worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	job = repo.only(t)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, clk.Now().Add(2*time.Minute), job.AvailableAt)

	clk.Advance(2 * time.Minute)
	_, err = worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	job = repo.only(t)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, notification.StatusFailed, job.Status)
}

func TestWorker_ExpiredLeaseIsReclaimed(t *testing.T) {
	worker, repo, _, clk := setup(t, Config{LeaseDuration: time.Minute})

	jobs, err := repo.Claim(context.Background(), 10, clk.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	n, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "leased job must not be claimed twice")

	clk.Advance(2 * time.Minute)
	jobs, err = repo.Claim(context.Background(), 10, clk.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].Attempts)
}

func TestWorker_NoGeneratorsFails(t *testing.T) {
	worker, repo, mailer, _ := setup(t, Config{MaxAttempts: 1})

	_, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	job := repo.only(t)
	assert.Equal(t, notification.StatusFailed, job.Status)
	mailer.AssertNotCalled(t, "SendAttendanceNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorker_BackoffIsCapped(t *testing.T) {
	worker := NewWorker(nil, nil, Config{BaseBackoff: time.Minute})

	assert.Equal(t, time.Minute, worker.backoff(1))
	assert.Equal(t, 4*time.Minute, worker.backoff(3))
	assert.Equal(t, maxBackoff, worker.backoff(20))
}

func TestWorker_StartStop(t *testing.T) {
	worker := NewWorker(newMemoryJobRepository(time.Now), new(mockMailer), Config{WorkerCount: 3, PollInterval: time.Millisecond})
	worker.Start()
	time.Sleep(5 * time.Millisecond)
	worker.Stop()
	worker.Stop()
}

// deadlineJobRepository fails status updates once the caller's context is done,
// like a database driver would.
type deadlineJobRepository struct {
	*memoryJobRepository
}

func (d deadlineJobRepository) MarkSent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.memoryJobRepository.MarkSent(ctx, id)
}

func TestWorker_SlowMailerDoesNotLoseDeliveredJobs(t *testing.T) {
	repo := newMemoryJobRepository(time.Now)
	dispatcher := NewDispatcher(repo)
	require.NoError(t, dispatcher.Dispatch(context.Background(), checkInEvent(), checkInEvent(), checkInEvent()))

	mailer := new(mockMailer)
	mailer.On("SendAttendanceNotification", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(60 * time.Millisecond) }).
		Return(nil)

	lease := 100 * time.Millisecond
	worker := NewWorker(deadlineJobRepository{repo}, mailer, Config{LeaseDuration: lease, BatchSize: 10}, staticGenerator{msg: confirmation})

	ctx, cancel := context.WithTimeout(context.Background(), lease)
	defer cancel()

	n, err := worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	mailed := len(mailer.Calls)
	assert.GreaterOrEqual(t, mailed, 1)
	assert.Less(t, mailed, 3, "no delivery may start after the lease ran out")

	repo.mu.Lock()
	defer repo.mu.Unlock()
	sent, leased := 0, 0
	for _, job := range repo.jobs {
		switch job.Status {
		case notification.StatusSent:
			sent++
		case notification.StatusProcessing:
			leased++
		}
	}
	assert.Equal(t, mailed, sent, "every mailed job must be marked sent")
	assert.Equal(t, 3-mailed, leased)
}
