package user

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,max=100"`
	LastName    string `json:"lastName" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

func (r *CreateUserRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type UpdateUserRequest struct {
	ID          string  `json:"-"`
	FirstName   *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
}

func (r *UpdateUserRequest) Validate() error {
	errs := validator.Struct(r)
	if r.FirstName == nil && r.LastName == nil && r.Email == nil && r.PhoneNumber == nil {
		errs = errs.Add("request", "at least one field must be provided")
	}
	return errs.OrNil()
}

// UserFilter holds the listing query; From and To bound created_at.
type UserFilter struct {
	From   *string
	To     *string
	Active *bool
	Search *string
	pagination.PageRequest
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.From != nil {
		if _, ok := validator.ParseTimeBound(*f.From, time.UTC, false); !ok {
			errs = errs.Add("from", "from must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		}
	}
	if f.To != nil {
		if _, ok := validator.ParseTimeBound(*f.To, time.UTC, true); !ok {
			errs = errs.Add("to", "to must be a date (YYYY-MM-DD) or RFC3339 timestamp")
		}
	}
	return errs.OrNil()
}

type UserResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        Role   `json:"role"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewUserResponse renders u without credentials.
func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}
