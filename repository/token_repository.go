// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"go-blog-api/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for revoked token identifiers.
type ITokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Revoke records a token identifier. Revoking an identifier again keeps the
// later of the two expiries.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"token_id":   tokenID,
		"expires_at": expiresAt,
	})
	log.Info("Executing query to revoke token")

	query := `INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2)
		ON CONFLICT (token_id) DO UPDATE SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)`
	if _, err := r.DB.ExecContext(ctx, query, tokenID, expiresAt); err != nil {
		log.WithError(err).Error("Failed to execute revoke token query")
		return err
	}
	return nil
}

// IsRevoked reports whether tokenID has an entry in the ledger.
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`
	if err := r.DB.QueryRowContext(ctx, query, tokenID).Scan(&revoked); err != nil {
		logger.Log.WithError(err).WithField("token_id", tokenID).Error("Failed to execute revoked token lookup")
		return false, err
	}
	return revoked, nil
}

// DeleteExpired removes entries whose recorded expiry is before now.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.Log.WithField("now", now)
	log.Info("Executing query to delete expired revoked tokens")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete expired revoked tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
