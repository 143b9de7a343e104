package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	employeesEmailKey      = "employees_email_key"
	employeesIdentifierKey = "employees_employee_identifier_key"
)

var employeeColumns = columnSet{
	employee.FieldActive:     "active",
	employee.FieldIdentifier: "employee_identifier",
	employee.FieldFirstName:  "first_name",
	employee.FieldLastName:   "last_name",
	employee.FieldEmail:      "email",
	employee.FieldPhone:      "phone_number",
	employee.FieldCreatedAt:  "created_at",
}

const employeeSelect = `
	SELECT id, first_name, last_name, email, phone_number, employee_identifier, active, created_at, updated_at
	FROM employees`

const employeeReturning = `
	RETURNING id, first_name, last_name, email, phone_number, employee_identifier, active, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if emp.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		emp.ID = id.String()
	}

	query := `
		INSERT INTO employees (id, first_name, last_name, email, phone_number, employee_identifier, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())` + employeeReturning

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.PhoneNumber, emp.EmployeeIdentifier, emp.Active,
	))
	if err != nil {
		return employee.Employee{}, translateEmployeeError("create", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByIdentifier implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByIdentifier(ctx context.Context, identifier string) (employee.Employee, error) {
	return r.getOne(ctx, "employee_identifier = $1", identifier)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ExistsByIdentifier implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE employee_identifier = $1)`, identifier).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee identifier: %w", err)
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, updated_at = NOW()
		WHERE id = $1` + employeeReturning

	updated, err := scanEmployee(q.QueryRow(ctx, query, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.PhoneNumber))
	if err != nil {
		return employee.Employee{}, translateEmployeeError("update", err)
	}
	return updated, nil
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employees SET active = $2, updated_at = NOW() WHERE id = $1` + employeeReturning
	updated, err := scanEmployee(q.QueryRow(ctx, query, id, active))
	if err != nil {
		return employee.Employee{}, translateEmployeeError("set active on", err)
	}
	return updated, nil
}

// Count implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}

// Find implements pagination.Source.
func (r *employeeRepositoryImpl) Find(ctx context.Context, query pagination.Query) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	where, args, err := buildWhere(query.Filter, employeeColumns, nil)
	if err != nil {
		return nil, err
	}
	orderBy, err := buildOrderBy(query.Order, employeeColumns, "created_at DESC")
	if err != nil {
		return nil, err
	}
	limit, args := buildLimit(query, args)

	rows, err := q.Query(ctx, employeeSelect+where+orderBy+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// FindAndCount implements pagination.Source.
func (r *employeeRepositoryImpl) FindAndCount(ctx context.Context, query pagination.Query) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args, err := buildWhere(query.Filter, employeeColumns, nil)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	employees, err := r.Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.PhoneNumber,
		&emp.EmployeeIdentifier, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func translateEmployeeError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case employeesEmailKey:
			return employee.ErrEmailExists
		case employeesIdentifierKey:
			return employee.ErrEmployeeIdentifierExists
		}
	}
	return fmt.Errorf("failed to %s employee: %w", op, err)
}
