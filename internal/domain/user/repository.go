package user

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

// Filter field names understood by UserRepository.Find and FindAndCount.
const (
	FieldActive    = "active"
	FieldCreatedAt = "created_at"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone_number"
)

type UserRepository interface {
	pagination.Source[User]

	// Create inserts a user. A duplicate email yields ErrEmailExists.
	Create(ctx context.Context, user User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Update writes profile fields (names, email, phone).
	Update(ctx context.Context, user User) (User, error)

	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	UpdateRole(ctx context.Context, id string, role Role) (User, error)

	// SetResetCode stores a password reset code; a nil code clears it.
	SetResetCode(ctx context.Context, id string, code *string, expiresAt *time.Time) error

	SetActive(ctx context.Context, id string, active bool) (User, error)

	Count(ctx context.Context) (int64, error)
}
