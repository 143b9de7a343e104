package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	loc *time.Location
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		loc:                  loc,
		now:                  time.Now,
	}
}

// Location implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Location() *time.Location {
	return a.loc
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, []attendance.Event, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, nil, err
	}

	emp, err := a.eligibleEmployee(ctx, req.EmployeeIdentifier)
	if err != nil {
		return attendance.CheckInResponse{}, nil, err
	}

	now := a.now().UTC()
	start, end := attendance.DayWindow(now, a.loc)

	_, err = a.AttendanceRepository.GetByEmployeeAndDay(ctx, emp.ID, start, end)
	switch {
	case err == nil:
		return attendance.CheckInResponse{}, nil, attendance.ErrAlreadyCheckedIn
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.CheckInResponse{}, nil, fmt.Errorf("failed to look up today's attendance: %w", err)
	}

	// The unique (employee_id, check_in_date) index rejects a concurrent check-in
	// that passed the lookup above; the repository reports it as ErrAlreadyCheckedIn.
	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:  emp.ID,
		CheckInTime: &now,
		CheckInDate: attendance.CalendarDay(now, a.loc),
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.CheckInResponse{}, nil, err
		}
		return attendance.CheckInResponse{}, nil, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_identifier", emp.EmployeeIdentifier,
		"attendance_id", created.ID,
	)

	events := []attendance.Event{{
		EmployeeEmail: emp.Email,
		EmployeeName:  emp.FullName(),
		Type:          attendance.EventCheckIn,
		Timestamp:     now,
	}}

	return attendance.CheckInResponse{
		CheckInTime: a.formatTime(now),
		Employee:    emp.FullName(),
	}, events, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, []attendance.Event, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, nil, err
	}

	emp, err := a.eligibleEmployee(ctx, req.EmployeeIdentifier)
	if err != nil {
		return attendance.CheckOutResponse{}, nil, err
	}

	now := a.now().UTC()
	start, end := attendance.DayWindow(now, a.loc)

	today, err := a.AttendanceRepository.GetByEmployeeAndDay(ctx, emp.ID, start, end)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.CheckOutResponse{}, nil, attendance.ErrNotCheckedIn
		}
		return attendance.CheckOutResponse{}, nil, fmt.Errorf("failed to look up today's attendance: %w", err)
	}
	if today.CheckOutTime != nil {
		return attendance.CheckOutResponse{}, nil, attendance.ErrAlreadyCheckedOut
	}

	closed, err := a.AttendanceRepository.Close(ctx, today.ID, now)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.CheckOutResponse{}, nil, err
		}
		return attendance.CheckOutResponse{}, nil, fmt.Errorf("failed to close attendance: %w", err)
	}

	slog.Info("Employee checked out",
		"employee_identifier", emp.EmployeeIdentifier,
		"attendance_id", closed.ID,
	)

	checkIn := now
	if closed.CheckInTime != nil {
		checkIn = *closed.CheckInTime
	}

	events := []attendance.Event{{
		EmployeeEmail: emp.Email,
		EmployeeName:  emp.FullName(),
		Type:          attendance.EventCheckOut,
		Timestamp:     now,
	}}

	return attendance.CheckOutResponse{
		CheckInTime:  a.formatTime(checkIn),
		CheckOutTime: a.formatTime(now),
		Employee:     emp.FullName(),
	}, events, nil
}

// FindEmployeeAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) FindEmployeeAttendance(ctx context.Context, filter attendance.AttendanceFilter) (pagination.Result[attendance.RecordResponse], error) {
	from, to, err := filter.Bounds(a.loc)
	if err != nil {
		return pagination.Result[attendance.RecordResponse]{}, err
	}

	query := pagination.Query{
		Filter: pagination.NewFilter().
			Equal(attendance.FieldEmployeeIdentifier, filter.EmployeeIdentifier).
			Range(attendance.FieldCreatedAt, from, to),
		Order: []pagination.Order{{Field: attendance.FieldCreatedAt, Direction: pagination.Desc}},
	}

	result, err := pagination.Paginate[attendance.Record](ctx, a.AttendanceRepository, filter.PageRequest, query)
	if err != nil {
		return pagination.Result[attendance.RecordResponse]{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return pagination.Map(result, a.mapRecordToResponse), nil
}

// FindByCheckInDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) FindByCheckInDay(ctx context.Context, day time.Time) ([]attendance.Record, error) {
	start, end := attendance.DayWindow(day, a.loc)

	records, err := a.AttendanceRepository.FindByCheckInDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance by check-in day: %w", err)
	}
	return records, nil
}

// eligibleEmployee resolves identifier and rejects inactive employees.
func (a *AttendanceServiceImpl) eligibleEmployee(ctx context.Context, identifier string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by identifier: %w", err)
	}
	if !emp.Active {
		return employee.Employee{}, attendance.ErrEmployeeInactive
	}
	return emp, nil
}

func (a *AttendanceServiceImpl) formatTime(t time.Time) string {
	return t.In(a.loc).Format(time.RFC3339)
}

// timePtrToString formats an optional timestamp in the service zone.
func (a *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := a.formatTime(*t)
	return &formatted
}

func (a *AttendanceServiceImpl) mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:           rec.ID,
		CheckInTime:  a.timePtrToString(rec.CheckInTime),
		CheckOutTime: a.timePtrToString(rec.CheckOutTime),
		CreatedAt:    a.formatTime(rec.CreatedAt),
		Employee: attendance.EmployeeSummaryResponse{
			ID:                 rec.Employee.ID,
			EmployeeIdentifier: rec.Employee.EmployeeIdentifier,
			FirstName:          rec.Employee.FirstName,
			LastName:           rec.Employee.LastName,
			Email:              rec.Employee.Email,
			PhoneNumber:        rec.Employee.PhoneNumber,
		},
	}
}
