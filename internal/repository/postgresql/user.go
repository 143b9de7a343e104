package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const usersEmailKey = "users_email_key"

var userColumns = columnSet{
	user.FieldActive:    "active",
	user.FieldCreatedAt: "created_at",
	user.FieldFirstName: "first_name",
	user.FieldLastName:  "last_name",
	user.FieldEmail:     "email",
	user.FieldPhone:     "phone_number",
}

const userFields = `id, first_name, last_name, email, phone_number, password_hash, role,
	reset_code, reset_code_expires_at, active, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if u.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
		}
		u.ID = id.String()
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, phone_number, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + userFields

	created, err := scanUser(q.QueryRow(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.Active,
	))
	if err != nil {
		return user.User{}, translateUserError("create", err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, "SELECT "+userFields+" FROM users WHERE "+where, arg))
	if err != nil {
		return user.User{}, translateUserError("get", err)
	}
	return u, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userFields

	updated, err := scanUser(q.QueryRow(ctx, query, u.ID, u.FirstName, u.LastName, u.Email, u.PhoneNumber))
	if err != nil {
		return user.User{}, translateUserError("update", err)
	}
	return updated, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id string, role user.Role) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userFields
	updated, err := scanUser(q.QueryRow(ctx, query, id, role))
	if err != nil {
		return user.User{}, translateUserError("update role of", err)
	}
	return updated, nil
}

// SetResetCode implements user.UserRepository.
func (r *userRepositoryImpl) SetResetCode(ctx context.Context, id string, code *string, expiresAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET reset_code = $2, reset_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`, id, code, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set reset code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetActive implements user.UserRepository.
func (r *userRepositoryImpl) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userFields
	updated, err := scanUser(q.QueryRow(ctx, query, id, active))
	if err != nil {
		return user.User{}, translateUserError("set active on", err)
	}
	return updated, nil
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// Find implements pagination.Source.
func (r *userRepositoryImpl) Find(ctx context.Context, query pagination.Query) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	where, args, err := buildWhere(query.Filter, userColumns, nil)
	if err != nil {
		return nil, err
	}
	orderBy, err := buildOrderBy(query.Order, userColumns, "created_at DESC")
	if err != nil {
		return nil, err
	}
	limit, args := buildLimit(query, args)

	rows, err := q.Query(ctx, "SELECT "+userFields+" FROM users"+where+orderBy+limit, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// FindAndCount implements pagination.Source.
func (r *userRepositoryImpl) FindAndCount(ctx context.Context, query pagination.Query) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args, err := buildWhere(query.Filter, userColumns, nil)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := r.Find(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role,
		&u.ResetCode, &u.ResetCodeExpiresAt, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func translateUserError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserNotFound
	}
	if constraint, ok := uniqueViolation(err); ok && constraint == usersEmailKey {
		return user.ErrEmailExists
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}
