package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	EmployeeIdentifier string
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName is the display name used in confirmations and reports.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
