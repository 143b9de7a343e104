package attendance

import (
	"time"
)

// Attendance is one employee check-in event. A record is open until
// CheckOutTime is set and closed afterwards.
type Attendance struct {
	ID           string
	EmployeeID   string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	CheckInDate  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Attendance) IsOpen() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil
}

// EmployeeSummary is the limited employee projection attached to listed records.
type EmployeeSummary struct {
	ID                 string
	EmployeeIdentifier string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
}

// Record is an attendance row joined with its employee.
type Record struct {
	ID           string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	CreatedAt    time.Time
	Employee     EmployeeSummary
}

// DayWindow returns the first and last millisecond of the calendar day that t
// falls on in loc. Under UTC this is [00:00:00.000, 23:59:59.999].
func DayWindow(t time.Time, loc *time.Location) (start, end time.Time) {
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// CalendarDay is the date part of t in loc, as stored in check_in_date.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

type EventType string

const (
	EventCheckIn  EventType = "checkin"
	EventCheckOut EventType = "checkout"
)

// Event describes a completed check-in or check-out that should be notified.
type Event struct {
	EmployeeEmail string
	EmployeeName  string
	Type          EventType
	Timestamp     time.Time
}
