package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

// Filter field names understood by EmployeeRepository.Find and FindAndCount.
const (
	FieldActive     = "active"
	FieldIdentifier = "employee_identifier"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldEmail      = "email"
	FieldPhone      = "phone_number"
	FieldCreatedAt  = "created_at"
)

type EmployeeRepository interface {
	pagination.Source[Employee]

	// Create inserts a new employee. Unique violations map to ErrEmailExists or ErrEmployeeIdentifierExists.
	Create(ctx context.Context, employee Employee) (Employee, error)

	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByIdentifier resolves the external identifier code used at check-in.
	GetByIdentifier(ctx context.Context, identifier string) (Employee, error)

	GetByEmail(ctx context.Context, email string) (Employee, error)

	ExistsByIdentifier(ctx context.Context, identifier string) (bool, error)

	Update(ctx context.Context, employee Employee) (Employee, error)

	SetActive(ctx context.Context, id string, active bool) (Employee, error)

	Count(ctx context.Context) (int64, error)
}
