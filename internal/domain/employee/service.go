package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

type EmployeeService interface {
	// Create registers an employee and assigns a generated identifier code.
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// List returns employees matching the filter, paginated when page params are present.
	List(ctx context.Context, filter EmployeeFilter) (pagination.Result[EmployeeResponse], error)

	GetByID(ctx context.Context, id string) (EmployeeResponse, error)

	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// ToggleActive flips the active flag. Employees are never deleted.
	ToggleActive(ctx context.Context, id string) (EmployeeResponse, error)
}
