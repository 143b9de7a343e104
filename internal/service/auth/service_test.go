package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type memoryUserRepository struct {
	users map[string]*user.User
}

func newMemoryUserRepository(users ...user.User) *memoryUserRepository {
	repo := &memoryUserRepository{users: make(map[string]*user.User)}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (m *memoryUserRepository) Find(context.Context, pagination.Query) ([]user.User, error) {
	return nil, nil
}

func (m *memoryUserRepository) FindAndCount(context.Context, pagination.Query) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (m *memoryUserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	m.users[u.ID] = &u
	return u, nil
}

func (m *memoryUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return *u, nil
}

func (m *memoryUserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memoryUserRepository) Update(_ context.Context, u user.User) (user.User, error) {
	m.users[u.ID] = &u
	return u, nil
}

func (m *memoryUserRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memoryUserRepository) UpdateRole(_ context.Context, id string, role user.Role) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Role = role
	return *u, nil
}

func (m *memoryUserRepository) SetResetCode(_ context.Context, id string, code *string, expiresAt *time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.ResetCode = code
	u.ResetCodeExpiresAt = expiresAt
	return nil
}

func (m *memoryUserRepository) SetActive(_ context.Context, id string, active bool) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Active = active
	return *u, nil
}

func (m *memoryUserRepository) Count(context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type memorySessionRepository struct {
	revoked map[string]time.Time
}

func (m *memorySessionRepository) Revoke(_ context.Context, tokenID string, _ string, expiresAt time.Time) error {
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *memorySessionRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *memorySessionRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
			n++
		}
	}
	return n, nil
}

type capturedCode struct {
	to   string
	code string
}

type recordingMailer struct {
	sent []capturedCode
}

func (r *recordingMailer) SendPasswordResetCode(_ context.Context, to string, _ string, code string, _ time.Time) error {
	r.sent = append(r.sent, capturedCode{to: to, code: code})
	return nil
}

type inlineTransactor struct {
	calls int
}

func (i *inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	i.calls++
	return fn(ctx)
}

type fixture struct {
	svc      *AuthServiceImpl
	users    *memoryUserRepository
	sessions *memorySessionRepository
	mailer   *recordingMailer
	tx       *inlineTransactor
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	users := newMemoryUserRepository(
		user.User{ID: "admin", FirstName: "Ada", Email: "admin@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleAdmin, Active: true},
		user.User{ID: "jean", FirstName: "Jean", Email: "jean@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, Active: true},
		user.User{ID: "gone", FirstName: "Gone", Email: "gone@example.com", PasswordHash: hash(t, "password123"), Role: user.RoleUser, Active: false},
	)
	sessions := &memorySessionRepository{revoked: make(map[string]time.Time)}
	mailer := &recordingMailer{}
	tx := &inlineTransactor{}

	svc := NewAuthService(tx, users, sessions, jwt.NewJWTService(testSecret, time.Hour), mailer).(*AuthServiceImpl)
	return fixture{svc: svc, users: users, sessions: sessions, mailer: mailer, tx: tx}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "JEAN@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
	assert.Equal(t, "jean", resp.User.ID)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "jean@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "gone@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := auth.Principal{UserID: "jean", TokenID: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, f.svc.Logout(ctx, principal))

	revoked, err := f.svc.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, f.svc.Logout(ctx, auth.Principal{UserID: "jean"}), auth.ErrInvalidToken)
}

func TestAuthService_ChangeRole(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.ChangeRole(context.Background(), auth.ChangeRoleRequest{UserID: "jean", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, resp.Role)

	_, err = f.svc.ChangeRole(context.Background(), auth.ChangeRoleRequest{UserID: "jean", Role: "OWNER"})
	assert.Error(t, err)

	_, err = f.svc.ChangeRole(context.Background(), auth.ChangeRoleRequest{UserID: "missing", Role: user.RoleUser})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAuthService_ChangePassword_Self(t *testing.T) {
	f := newFixture(t)
	caller := auth.Principal{UserID: "jean", Email: "jean@example.com", Role: user.RoleUser}

	err := f.svc.ChangePassword(context.Background(), caller, auth.ChangePasswordRequest{Email: "jean@example.com", NewPassword: "new-password-1"})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Email: "jean@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword_OtherUserForbidden(t *testing.T) {
	f := newFixture(t)
	caller := auth.Principal{UserID: "jean", Email: "jean@example.com", Role: user.RoleUser}

	err := f.svc.ChangePassword(context.Background(), caller, auth.ChangePasswordRequest{Email: "admin@example.com", NewPassword: "new-password-1"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestAuthService_ChangePassword_AdminForOthers(t *testing.T) {
	f := newFixture(t)
	caller := auth.Principal{UserID: "admin", Email: "admin@example.com", Role: user.RoleAdmin}

	err := f.svc.ChangePassword(context.Background(), caller, auth.ChangePasswordRequest{Email: "jean@example.com", NewPassword: "new-password-1"})
	assert.NoError(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.svc.RequestPasswordReset(ctx, auth.RequestPasswordResetRequest{Email: "jean@example.com"}))
	require.Len(t, f.mailer.sent, 1)
	code := f.mailer.sent[0].code
	assert.Len(t, code, 6)
	assert.Equal(t, "jean@example.com", f.mailer.sent[0].to)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "jean@example.com", ResetCode: wrong, NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidResetCode)

	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "jean@example.com", ResetCode: code, NewPassword: "brand-new-pass"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.tx.calls)

	stored, _ := f.users.GetByID(ctx, "jean")
	assert.Nil(t, stored.ResetCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))

	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "jean@example.com", ResetCode: code, NewPassword: "another-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidResetCode)
}

func TestAuthService_ResetCodeExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.svc.RequestPasswordReset(ctx, auth.RequestPasswordResetRequest{Email: "jean@example.com"}))
	code := f.mailer.sent[0].code

	f.svc.now = func() time.Time { return now.Add(resetCodeTTL) }
	err := f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Email: "jean@example.com", ResetCode: code, NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, auth.ErrResetCodeExpired)
}

func TestAuthService_RequestPasswordResetUnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RequestPasswordReset(context.Background(), auth.RequestPasswordResetRequest{Email: "nobody@example.com"})
	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateResetCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}
