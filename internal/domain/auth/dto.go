package auth

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Principal is the authenticated caller, read from access token claims.
type Principal struct {
	UserID    string
	Email     string
	Role      user.Role
	TokenID   string
	ExpiresAt time.Time
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type LoginResponse struct {
	AccessToken string            `json:"accessToken"`
	ExpiresAt   int64             `json:"expiresAt"`
	User        user.UserResponse `json:"user"`
}

type ChangeRoleRequest struct {
	UserID string    `json:"-"`
	Role   user.Role `json:"role" validate:"required,oneof=ADMIN USER"`
}

func (r *ChangeRoleRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *RequestPasswordResetRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetCode   string `json:"resetCode" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

func (r *ResetPasswordRequest) Validate() error {
	return validator.Struct(r).OrNil()
}
