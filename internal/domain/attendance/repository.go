package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

// Filter field names understood by AttendanceRepository.Find and FindAndCount.
const (
	FieldEmployeeIdentifier = "employee_identifier"
	FieldCreatedAt          = "created_at"
	FieldCheckInTime        = "check_in_time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Find and FindAndCount list records joined with their employee.
	pagination.Source[Record]

	// Create inserts an open record. A second record for the same employee and
	// CheckInDate fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDay returns the record whose check-in falls within [start, end].
	GetByEmployeeAndDay(ctx context.Context, employeeID string, start, end time.Time) (Attendance, error)

	// Close sets the check-out time of an open record. A record that is already
	// closed yields ErrAlreadyCheckedOut.
	Close(ctx context.Context, id string, checkOut time.Time) (Attendance, error)

	// FindByCheckInDay returns joined records with check-in inside [start, end], oldest first.
	FindByCheckInDay(ctx context.Context, start, end time.Time) ([]Record, error)

	Count(ctx context.Context) (int64, error)
}
