package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo user.UserRepository
	loc      *time.Location
}

func NewUserService(userRepo user.UserRepository, loc *time.Location) user.UserService {
	if loc == nil {
		loc = time.UTC
	}
	return &UserServiceImpl{userRepo: userRepo, loc: loc}
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.ensureEmailAvailable(ctx, email, ""); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(hashed),
		Role:         user.RoleUser,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role)
	return user.NewUserResponse(created), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (pagination.Result[user.UserResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Result[user.UserResponse]{}, err
	}

	var from, to *time.Time
	if filter.From != nil {
		if t, ok := validator.ParseTimeBound(*filter.From, s.loc, false); ok {
			from = &t
		}
	}
	if filter.To != nil {
		if t, ok := validator.ParseTimeBound(*filter.To, s.loc, true); ok {
			to = &t
		}
	}

	query := pagination.Query{
		Filter: pagination.NewFilter().
			Equal(user.FieldActive, filter.Active).
			Range(user.FieldCreatedAt, from, to).
			Search(filter.Search, user.FieldFirstName, user.FieldLastName, user.FieldEmail, user.FieldPhone),
		Order: []pagination.Order{{Field: user.FieldCreatedAt, Direction: pagination.Desc}},
	}

	result, err := pagination.Paginate[user.User](ctx, s.userRepo, filter.PageRequest, query)
	if err != nil {
		return pagination.Result[user.UserResponse]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return pagination.Map(result, user.NewUserResponse), nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.get(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != u.Email {
			if err := s.ensureEmailAvailable(ctx, email, u.ID); err != nil {
				return user.UserResponse{}, err
			}
		}
		u.Email = email
	}

	updated, err := s.userRepo.Update(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user.NewUserResponse(updated), nil
}

// ToggleActive implements user.UserService.
func (s *UserServiceImpl) ToggleActive(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.userRepo.SetActive(ctx, id, !u.Active)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to toggle user status: %w", err)
	}

	slog.Info("User status changed", "user_id", id, "active", updated.Active)
	return user.NewUserResponse(updated), nil
}

func (s *UserServiceImpl) get(ctx context.Context, id string) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *UserServiceImpl) ensureEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check user email: %w", err)
	case existing.ID != selfID:
		return user.ErrEmailExists
	}
	return nil
}
