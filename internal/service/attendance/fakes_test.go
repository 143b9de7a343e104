package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
)

type fakeEmployeeRepository struct {
	employee.EmployeeRepository
	byIdentifier map[string]employee.Employee
}

func newFakeEmployeeRepository(employees ...employee.Employee) *fakeEmployeeRepository {
	repo := &fakeEmployeeRepository{byIdentifier: make(map[string]employee.Employee)}
	for _, e := range employees {
		repo.byIdentifier[e.EmployeeIdentifier] = e
	}
	return repo
}

func (f *fakeEmployeeRepository) GetByIdentifier(_ context.Context, identifier string) (employee.Employee, error) {
	e, ok := f.byIdentifier[identifier]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// fakeAttendanceRepository keeps rows in memory and enforces the
// one-row-per-employee-per-day rule the database index provides.
type fakeAttendanceRepository struct {
	mu        sync.Mutex
	rows      []attendance.Attendance
	records   []attendance.Record
	lastQuery pagination.Query

	// hideOnLookup makes GetByEmployeeAndDay miss, simulating a concurrent
	// writer that inserted between the lookup and the insert.
	hideOnLookup bool
}

func (f *fakeAttendanceRepository) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.EmployeeID == a.EmployeeID && row.CheckInDate.Equal(a.CheckInDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	f.rows = append(f.rows, a)
	return a, nil
}

func (f *fakeAttendanceRepository) GetByEmployeeAndDay(_ context.Context, employeeID string, start, end time.Time) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hideOnLookup {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	for _, row := range f.rows {
		if row.EmployeeID != employeeID || row.CheckInTime == nil {
			continue
		}
		if !row.CheckInTime.Before(start) && !row.CheckInTime.After(end) {
			return row, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepository) Close(_ context.Context, id string, checkOut time.Time) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, row := range f.rows {
		if row.ID != id {
			continue
		}
		if row.CheckOutTime != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		f.rows[i].CheckOutTime = &checkOut
		return f.rows[i], nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepository) FindByCheckInDay(_ context.Context, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.CheckInTime != nil && !rec.CheckInTime.Before(start) && !rec.CheckInTime.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepository) Find(_ context.Context, q pagination.Query) ([]attendance.Record, error) {
	f.lastQuery = q
	return f.records, nil
}

func (f *fakeAttendanceRepository) FindAndCount(_ context.Context, q pagination.Query) ([]attendance.Record, int64, error) {
	f.lastQuery = q
	start := min(q.Skip, len(f.records))
	end := min(start+q.Take, len(f.records))
	return f.records[start:end], int64(len(f.records)), nil
}

func (f *fakeAttendanceRepository) Count(context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}
