package auth

import (
	"context"
	"time"
)

// SessionRepository stores revoked access tokens until they expire.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// PurgeExpired removes revocations whose token can no longer be presented.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
