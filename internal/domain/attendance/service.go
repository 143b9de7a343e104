package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

// AttendanceService runs the daily check-in/check-out lifecycle. Mutating
// operations return the events the caller should hand to an EventDispatcher.
type AttendanceService interface {
	// CheckIn opens today's record for the employee with the given identifier.
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, []Event, error)

	// CheckOut closes today's open record.
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, []Event, error)

	// FindEmployeeAttendance lists records newest first.
	FindEmployeeAttendance(ctx context.Context, filter AttendanceFilter) (pagination.Result[RecordResponse], error)

	// FindByCheckInDay returns every record checked in on the calendar day of day.
	FindByCheckInDay(ctx context.Context, day time.Time) ([]Record, error)

	// Location is the zone calendar days are counted in.
	Location() *time.Location
}

// EventDispatcher accepts events for asynchronous delivery. Dispatch returns
// once the events are enqueued.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...Event) error
}
