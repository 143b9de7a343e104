package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	EmployeeIdentifier string `json:"employeeIdentifier" validate:"notblank,max=120"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type CheckOutRequest struct {
	EmployeeIdentifier string `json:"employeeIdentifier" validate:"notblank,max=120"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type CheckInResponse struct {
	CheckInTime string `json:"checkInTime"`
	Employee    string `json:"employee"`
}

type CheckOutResponse struct {
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	Employee     string `json:"employee"`
}

// AttendanceFilter holds the listing query. From and To are raw YYYY-MM-DD or
// RFC3339 values; a bare To date covers that whole day.
type AttendanceFilter struct {
	EmployeeIdentifier *string
	From               *string
	To                 *string
	pagination.PageRequest
}

// Bounds validates From and To and parses them, reading bare dates in loc.
// Page parameters are range checked where the request is decoded.
func (f *AttendanceFilter) Bounds(loc *time.Location) (from, to *time.Time, err error) {
	var errs validator.ValidationErrors

	if f.From != nil {
		if t, ok := validator.ParseTimeBound(*f.From, loc, false); ok {
			from = &t
		} else {
			errs = errs.Add("from", "from must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		}
	}
	if f.To != nil {
		if t, ok := validator.ParseTimeBound(*f.To, loc, true); ok {
			to = &t
		} else {
			errs = errs.Add("to", "to must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		}
	}
	if from != nil && to != nil && to.Before(*from) {
		errs = errs.Add("to", "to must not be before from")
	}

	if err := errs.OrNil(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

type EmployeeSummaryResponse struct {
	ID                 string `json:"id"`
	EmployeeIdentifier string `json:"employeeIdentifier"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
}

type RecordResponse struct {
	ID           string                  `json:"id"`
	CheckInTime  *string                 `json:"checkInTime"`
	CheckOutTime *string                 `json:"checkOutTime"`
	CreatedAt    string                  `json:"createdAt"`
	Employee     EmployeeSummaryResponse `json:"employee"`
}
