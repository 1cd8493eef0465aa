// file: service/cached_ledger.go

package service

import (
	"context"
	"errors"
	"go-blog-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	revokedKeyPrefix   = "revoked:"
	defaultBackfillTTL = 15 * time.Minute
)

// CachedLedger fronts a durable ledger with Redis. Only positive answers are
// cached, and a cache failure falls through to the durable ledger.
type CachedLedger struct {
	backing     RevocationLedger
	cache       ICacheClient
	backfillTTL time.Duration
	now         func() time.Time
}

func NewCachedLedger(backing RevocationLedger, cache ICacheClient) *CachedLedger {
	return &CachedLedger{
		backing:     backing,
		cache:       cache,
		backfillTTL: defaultBackfillTTL,
		now:         time.Now,
	}
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// Revoke writes the durable entry first, then caches it until the token expires.
func (l *CachedLedger) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := l.backing.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}

	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.cache.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("token_id", tokenID).Warn("Failed to cache revoked token")
	}
	return nil
}

func (l *CachedLedger) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	log := logger.Log.WithFields(logrus.Fields{"token_id": tokenID})

	// 1. Try Redis.
	_, err := l.cache.Get(ctx, revokedKey(tokenID)).Result()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.WithError(err).Warn("Revocation cache lookup failed, falling back to database")
	}

	// 2. Cache miss. Ask the durable ledger.
	revoked, err := l.backing.IsRevoked(ctx, tokenID)
	if err != nil {
		return false, err
	}

	// 3. Back-fill positive answers. Overshooting the real expiry is harmless
	// because an expired token is rejected before the ledger is consulted.
	if revoked {
		if err := l.cache.Set(ctx, revokedKey(tokenID), "1", l.backfillTTL).Err(); err != nil {
			log.WithError(err).Warn("Failed to back-fill revocation cache")
		}
	}
	return revoked, nil
}

// Sweep only touches the durable ledger; Redis expires its keys on its own.
func (l *CachedLedger) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return l.backing.Sweep(ctx, now)
}
