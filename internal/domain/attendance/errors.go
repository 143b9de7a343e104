package attendance

import "errors"

// Attendance domain errors
var (
	ErrEmployeeInactive  = errors.New("employee is not active, you are not allowed to check in or out")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you did not check in today, please check in before checking out")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
