package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Logout revokes the caller's token until it expires.
	Logout(ctx context.Context, principal Principal) error

	// IsRevoked reports whether a token id was logged out.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	ChangeRole(ctx context.Context, req ChangeRoleRequest) (user.UserResponse, error)

	// ChangePassword lets a user change their own password, or an admin anyone's.
	ChangePassword(ctx context.Context, principal Principal, req ChangePasswordRequest) error

	// RequestPasswordReset emails a six digit code. Unknown emails succeed silently.
	RequestPasswordReset(ctx context.Context, req RequestPasswordResetRequest) error

	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// ResetCodeSender delivers password reset codes out of band.
type ResetCodeSender interface {
	SendPasswordResetCode(ctx context.Context, to string, name string, code string, expiresAt time.Time) error
}
