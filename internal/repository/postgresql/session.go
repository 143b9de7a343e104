package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates the store-backed revocation list.
func NewSessionRepository(db *database.DB) auth.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// Revoke implements auth.SessionRepository.
func (s *sessionRepositoryImpl) Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO revoked_sessions (token_id, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (token_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, tokenID, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked implements auth.SessionRepository.
func (s *sessionRepositoryImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	q := GetQuerier(ctx, s.db)

	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_sessions WHERE token_id = $1 AND expires_at > NOW())`
	if err := q.QueryRow(ctx, query, tokenID).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return revoked, nil
}

// PurgeExpired implements auth.SessionRepository.
func (s *sessionRepositoryImpl) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `DELETE FROM revoked_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
