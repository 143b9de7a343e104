package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

// AccessToken is a signed token together with the claims the caller needs
// to track it.
type AccessToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (AccessToken, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (AccessToken, error) {
	tokenID, err := uuid.NewV7()
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to generate token id: %w", err)
	}
	expiresAt := j.now().Add(j.accessTokenExpiration).Truncate(time.Second)

	claims := map[string]interface{}{
		"jti":     tokenID.String(),
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt.Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return AccessToken{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return AccessToken{Token: tokenString, TokenID: tokenID.String(), ExpiresAt: expiresAt}, nil
}

// PrincipalFromClaims reads the caller out of verified access token claims.
func PrincipalFromClaims(claims map[string]interface{}) (auth.Principal, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	tokenID, _ := claims["jti"].(string)
	if userID == "" || tokenID == "" {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	principal := auth.Principal{
		UserID:  userID,
		Email:   email,
		Role:    user.Role(role),
		TokenID: tokenID,
	}

	switch exp := claims["exp"].(type) {
	case time.Time:
		principal.ExpiresAt = exp
	case float64:
		principal.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		principal.ExpiresAt = time.Unix(exp, 0)
	default:
		return auth.Principal{}, auth.ErrInvalidToken
	}

	return principal, nil
}
