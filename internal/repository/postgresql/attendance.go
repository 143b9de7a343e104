package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceEmployeeDayKey = "attendances_employee_day_key"

var attendanceColumns = columnSet{
	attendance.FieldEmployeeIdentifier: "e.employee_identifier",
	attendance.FieldCreatedAt:          "a.created_at",
	attendance.FieldCheckInTime:        "a.check_in_time",
}

const attendanceRecordSelect = `
	SELECT
		a.id, a.check_in_time, a.check_out_time, a.created_at,
		e.id, e.employee_identifier, e.first_name, e.last_name, e.email, e.phone_number
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id`

const attendanceReturning = `
	RETURNING id, employee_id, check_in_time, check_out_time, check_in_date, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		att.ID = id.String()
	}

	query := `
		INSERT INTO attendances (id, employee_id, check_in_time, check_out_time, check_in_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())` + attendanceReturning

	created, err := scanAttendance(q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.CheckInTime, att.CheckOutTime, att.CheckInDate,
	))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == attendanceEmployeeDayKey {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, start, end time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, check_in_time, check_out_time, check_in_date, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND check_in_time BETWEEN $2 AND $3
		ORDER BY check_in_time DESC
		LIMIT 1
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and day: %w", err)
	}
	return att, nil
}

// Close implements attendance.AttendanceRepository.
func (a *attendanceRepository) Close(ctx context.Context, id string, checkOut time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_out_time = $2, updated_at = NOW()
		WHERE id = $1 AND check_out_time IS NULL` + attendanceReturning

	att, err := scanAttendance(q.QueryRow(ctx, query, id, checkOut))
	if err == nil {
		return att, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1)`, id).Scan(&exists); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

// FindByCheckInDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByCheckInDay(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	filter := pagination.NewFilter().Range(attendance.FieldCheckInTime, start, end)
	return a.Find(ctx, pagination.Query{
		Filter: filter,
		Order:  []pagination.Order{{Field: attendance.FieldCheckInTime, Direction: pagination.Asc}},
	})
}

// Find implements pagination.Source.
func (a *attendanceRepository) Find(ctx context.Context, query pagination.Query) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where, args, err := buildWhere(query.Filter, attendanceColumns, nil)
	if err != nil {
		return nil, err
	}
	orderBy, err := buildOrderBy(query.Order, attendanceColumns, "a.created_at DESC")
	if err != nil {
		return nil, err
	}
	limit, args := buildLimit(query, args)

	rows, err := q.Query(ctx, attendanceRecordSelect+where+orderBy+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.CheckInTime, &rec.CheckOutTime, &rec.CreatedAt,
			&rec.Employee.ID, &rec.Employee.EmployeeIdentifier, &rec.Employee.FirstName,
			&rec.Employee.LastName, &rec.Employee.Email, &rec.Employee.PhoneNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

// FindAndCount implements pagination.Source.
func (a *attendanceRepository) FindAndCount(ctx context.Context, query pagination.Query) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args, err := buildWhere(query.Filter, attendanceColumns, nil)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	records, err := a.Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Count implements attendance.AttendanceRepository.
func (a *attendanceRepository) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, a.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}
	return total, nil
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CheckInTime, &att.CheckOutTime,
		&att.CheckInDate, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}
