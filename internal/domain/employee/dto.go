package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,max=100"`
	LastName    string `json:"lastName" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type UpdateEmployeeRequest struct {
	ID          string  `json:"-"`
	FirstName   *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if r.FirstName == nil && r.LastName == nil && r.Email == nil && r.PhoneNumber == nil {
		errs = errs.Add("request", "at least one field must be provided")
	}
	return errs.OrNil()
}

type EmployeeFilter struct {
	Active *bool
	Search *string
	pagination.PageRequest
}

type EmployeeResponse struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	EmployeeIdentifier string `json:"employeeIdentifier"`
	Active             bool   `json:"active"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// NewEmployeeResponse renders e for API output.
func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		PhoneNumber:        e.PhoneNumber,
		EmployeeIdentifier: e.EmployeeIdentifier,
		Active:             e.Active,
		CreatedAt:          e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          e.UpdatedAt.Format(time.RFC3339),
	}
}
