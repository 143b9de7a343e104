package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

const resetCodeTTL = 15 * time.Minute

type AuthServiceImpl struct {
	user.UserRepository
	auth.SessionRepository
	jwt.Service
	transactor postgresql.Transactor
	mailer     auth.ResetCodeSender
	now        func() time.Time
}

func NewAuthService(
	transactor postgresql.Transactor,
	userRepository user.UserRepository,
	sessionRepository auth.SessionRepository,
	jwtService jwt.Service,
	mailer auth.ResetCodeSender,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:    userRepository,
		SessionRepository: sessionRepository,
		Service:           jwtService,
		transactor:        transactor,
		mailer:            mailer,
		now:               time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.Active {
		return auth.LoginResponse{}, auth.ErrUserInactive
	}

	token, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("User logged in", "user_id", userData.ID, "role", userData.Role)
	return auth.LoginResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt.Unix(),
		User:        user.NewUserResponse(userData),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, principal auth.Principal) error {
	if principal.TokenID == "" {
		return auth.ErrInvalidToken
	}
	if err := a.SessionRepository.Revoke(ctx, principal.TokenID, principal.UserID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	slog.Info("User logged out", "user_id", principal.UserID)
	return nil
}

// IsRevoked implements auth.AuthService.
func (a *AuthServiceImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return a.SessionRepository.IsRevoked(ctx, tokenID)
}

// ChangeRole implements auth.AuthService.
func (a *AuthServiceImpl) ChangeRole(ctx context.Context, req auth.ChangeRoleRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := a.UserRepository.UpdateRole(ctx, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to change role: %w", err)
	}

	slog.Info("User role changed", "user_id", updated.ID, "role", updated.Role)
	return user.NewUserResponse(updated), nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, principal auth.Principal, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if !principal.IsAdmin() && !strings.EqualFold(principal.Email, strings.TrimSpace(req.Email)) {
		return auth.ErrForbidden
	}

	target, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := a.UserRepository.UpdatePassword(ctx, target.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("Password changed", "user_id", target.ID, "changed_by", principal.UserID)
	return nil
}

// RequestPasswordReset implements auth.AuthService.
func (a *AuthServiceImpl) RequestPasswordReset(ctx context.Context, req auth.RequestPasswordResetRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	target, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Warn("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	expiresAt := a.now().UTC().Add(resetCodeTTL)

	if err := a.UserRepository.SetResetCode(ctx, target.ID, &code, &expiresAt); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := a.mailer.SendPasswordResetCode(ctx, target.Email, target.FullName(), code, expiresAt); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	target, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidResetCode
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if target.ResetCode == nil || subtle.ConstantTimeCompare([]byte(*target.ResetCode), []byte(req.ResetCode)) != 1 {
		return auth.ErrInvalidResetCode
	}
	if target.ResetCodeExpiresAt == nil || !a.now().Before(*target.ResetCodeExpiresAt) {
		return auth.ErrResetCodeExpired
	}

	hashed, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	err = a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, target.ID, hashed); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := a.UserRepository.SetResetCode(txCtx, target.ID, nil, nil); err != nil {
			return fmt.Errorf("failed to clear reset code: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Password reset", "user_id", target.ID)
	return nil
}

// generateResetCode returns a zero-padded six digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
