package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

const (
	identifierMin = 100000
	identifierMax = 999999
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	randIntN     func(n int) int
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		randIntN:     rand.IntN,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailAvailable(ctx, email, ""); err != nil {
		return employee.EmployeeResponse{}, err
	}

	identifier, err := s.generateIdentifier(ctx, req.FirstName)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              email,
		PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
		EmployeeIdentifier: identifier,
		Active:             true,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeIdentifierExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "employee_id", created.ID, "employee_identifier", created.EmployeeIdentifier)
	return employee.NewEmployeeResponse(created), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (pagination.Result[employee.EmployeeResponse], error) {
	active := true
	if filter.Active != nil {
		active = *filter.Active
	}

	query := pagination.Query{
		Filter: pagination.NewFilter().
			Equal(employee.FieldActive, active).
			Search(filter.Search,
				employee.FieldFirstName,
				employee.FieldLastName,
				employee.FieldEmail,
				employee.FieldPhone,
				employee.FieldIdentifier,
			),
		Order: []pagination.Order{{Field: employee.FieldCreatedAt, Direction: pagination.Desc}},
	}

	result, err := pagination.Paginate[employee.Employee](ctx, s.employeeRepo, filter.PageRequest, query)
	if err != nil {
		return pagination.Result[employee.EmployeeResponse]{}, fmt.Errorf("failed to list employees: %w", err)
	}
	return pagination.Map(result, employee.NewEmployeeResponse), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewEmployeeResponse(emp), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		emp.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != emp.Email {
			if err := s.ensureEmailAvailable(ctx, email, emp.ID); err != nil {
				return employee.EmployeeResponse{}, err
			}
		}
		emp.Email = email
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee.NewEmployeeResponse(updated), nil
}

// ToggleActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ToggleActive(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	updated, err := s.employeeRepo.SetActive(ctx, id, !emp.Active)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to toggle employee status: %w", err)
	}

	slog.Info("Employee status changed", "employee_id", id, "active", updated.Active)
	return employee.NewEmployeeResponse(updated), nil
}

// ensureEmailAvailable fails with ErrEmailExists when email belongs to an
// employee other than selfID.
func (s *EmployeeServiceImpl) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.employeeRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check employee email: %w", err)
	case existing.ID != selfID:
		return employee.ErrEmailExists
	}
	return nil
}

// generateIdentifier builds lower(firstName)+NNNNNN, drawing a second number
// once if the first is taken. The unique index catches anything left.
func (s *EmployeeServiceImpl) generateIdentifier(ctx context.Context, firstName string) (string, error) {
	prefix := strings.ToLower(strings.TrimSpace(firstName))

	identifier := s.candidate(prefix)
	exists, err := s.employeeRepo.ExistsByIdentifier(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("failed to check employee identifier: %w", err)
	}
	if exists {
		identifier = s.candidate(prefix)
	}
	return identifier, nil
}

func (s *EmployeeServiceImpl) candidate(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, identifierMin+s.randIntN(identifierMax-identifierMin+1))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
