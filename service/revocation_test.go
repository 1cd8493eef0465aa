package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return m.Called(ctx, tokenID, expiresAt).Error(0)
}

func (m *mockTokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	return m.Called(ctx, key).Get(0).(*redis.StringCmd)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return m.Called(ctx, key, value, expiration).Get(0).(*redis.StatusCmd)
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	revoked, err := ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "jti-1", t0.Add(time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "jti-1", t0.Add(time.Minute)), "revoking twice is not an error")
	require.NoError(t, ledger.Revoke(ctx, "jti-2", t0.Add(time.Minute)))
	assert.Equal(t, 2, ledger.Len())

	revoked, err = ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("sweep keeps entries that have not expired", func(t *testing.T) {
		removed, err := ledger.Sweep(ctx, t0.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		revoked, _ := ledger.IsRevoked(ctx, "jti-1")
		assert.True(t, revoked, "the later expiry wins over the earlier one")
		revoked, _ = ledger.IsRevoked(ctx, "jti-2")
		assert.False(t, revoked)
	})

	t.Run("an entry expiring exactly now survives the sweep", func(t *testing.T) {
		removed, err := ledger.Sweep(ctx, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Equal(t, 1, ledger.Len())
	})
}

func TestMemoryLedger_ConcurrentRevoke(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Revoke(ctx, "shared", t0.Add(time.Hour))
			_, _ = ledger.IsRevoked(ctx, "shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ledger.Len())
}

func TestPersistentLedger(t *testing.T) {
	ctx := context.Background()
	repo := new(mockTokenRepo)
	ledger := NewPersistentLedger(repo)
	exp := t0.Add(time.Hour)

	repo.On("Revoke", ctx, "jti-1", exp).Return(nil).Once()
	repo.On("IsRevoked", ctx, "jti-1").Return(true, nil).Once()
	repo.On("DeleteExpired", ctx, t0).Return(int64(3), nil).Once()

	assert.NoError(t, ledger.Revoke(ctx, "jti-1", exp))
	revoked, err := ledger.IsRevoked(ctx, "jti-1")
	assert.NoError(t, err)
	assert.True(t, revoked)
	removed, err := ledger.Sweep(ctx, t0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	repo.AssertExpectations(t)
}

func newTestCachedLedger(backing RevocationLedger, cache ICacheClient) *CachedLedger {
	ledger := NewCachedLedger(backing, cache)
	ledger.now = fixedClock(t0)
	return ledger
}

func TestCachedLedger_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("caches until the token expires", func(t *testing.T) {
		backing := NewMemoryLedger()
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		cache.On("Set", ctx, "revoked:jti-1", "1", time.Hour).Return(redis.NewStatusResult("OK", nil)).Once()

		require.NoError(t, ledger.Revoke(ctx, "jti-1", t0.Add(time.Hour)))
		revoked, _ := backing.IsRevoked(ctx, "jti-1")
		assert.True(t, revoked)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure does not fail the revocation", func(t *testing.T) {
		backing := NewMemoryLedger()
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		cache.On("Set", ctx, "revoked:jti-2", "1", time.Minute).Return(redis.NewStatusResult("", errors.New("redis down"))).Once()

		assert.NoError(t, ledger.Revoke(ctx, "jti-2", t0.Add(time.Minute)))
		assert.Equal(t, 1, backing.Len())
	})

	t.Run("backing failure is returned and nothing is cached", func(t *testing.T) {
		backing := new(mockLedger)
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		dbErr := errors.New("db down")
		backing.On("Revoke", ctx, "jti-3", t0.Add(time.Hour)).Return(dbErr).Once()

		assert.ErrorIs(t, ledger.Revoke(ctx, "jti-3", t0.Add(time.Hour)), dbErr)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already expired entries skip the cache", func(t *testing.T) {
		backing := NewMemoryLedger()
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		assert.NoError(t, ledger.Revoke(ctx, "jti-4", t0.Add(-time.Second)))
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCachedLedger_IsRevoked(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		backing := new(mockLedger)
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		cache.On("Get", ctx, "revoked:jti-1").Return(redis.NewStringResult("1", nil)).Once()

		revoked, err := ledger.IsRevoked(ctx, "jti-1")
		assert.NoError(t, err)
		assert.True(t, revoked)
		backing.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
	})

	t.Run("cache miss back-fills a positive answer", func(t *testing.T) {
		backing := NewMemoryLedger()
		require.NoError(t, backing.Revoke(ctx, "jti-2", t0.Add(time.Hour)))
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		cache.On("Get", ctx, "revoked:jti-2").Return(redis.NewStringResult("", redis.Nil)).Once()
		cache.On("Set", ctx, "revoked:jti-2", "1", defaultBackfillTTL).Return(redis.NewStatusResult("OK", nil)).Once()

		revoked, err := ledger.IsRevoked(ctx, "jti-2")
		assert.NoError(t, err)
		assert.True(t, revoked)
		cache.AssertExpectations(t)
	})

	t.Run("negative answers are not cached", func(t *testing.T) {
		cache := new(mockCache)
		ledger := newTestCachedLedger(NewMemoryLedger(), cache)

		cache.On("Get", ctx, "revoked:jti-3").Return(redis.NewStringResult("", redis.Nil)).Once()

		revoked, err := ledger.IsRevoked(ctx, "jti-3")
		assert.NoError(t, err)
		assert.False(t, revoked)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache outage falls back to the backing ledger", func(t *testing.T) {
		backing := NewMemoryLedger()
		require.NoError(t, backing.Revoke(ctx, "jti-4", t0.Add(time.Hour)))
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		cache.On("Get", ctx, "revoked:jti-4").Return(redis.NewStringResult("", errors.New("i/o timeout"))).Once()
		cache.On("Set", ctx, "revoked:jti-4", "1", defaultBackfillTTL).Return(redis.NewStatusResult("", errors.New("i/o timeout"))).Once()

		revoked, err := ledger.IsRevoked(ctx, "jti-4")
		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("backing failure is returned", func(t *testing.T) {
		backing := new(mockLedger)
		cache := new(mockCache)
		ledger := newTestCachedLedger(backing, cache)

		dbErr := errors.New("db down")
		cache.On("Get", ctx, "revoked:jti-5").Return(redis.NewStringResult("", redis.Nil)).Once()
		backing.On("IsRevoked", ctx, "jti-5").Return(false, dbErr).Once()

		_, err := ledger.IsRevoked(ctx, "jti-5")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestLedgerSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.Revoke(ctx, "old", t0.Add(-time.Minute)))
	require.NoError(t, ledger.Revoke(ctx, "live", t0.Add(time.Minute)))

	sweeper := NewLedgerSweeper(NewCachedLedger(ledger, new(mockCache)))
	sweeper.now = fixedClock(t0)

	removed, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, ledger.Len())

	t.Run("failure is reported", func(t *testing.T) {
		failing := new(mockLedger)
		failing.On("Sweep", ctx, t0).Return(int64(0), errors.New("db down")).Once()
		sweeper := NewLedgerSweeper(failing)
		sweeper.now = fixedClock(t0)

		_, err := sweeper.SweepOnce(ctx)
		assert.Error(t, err)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		assert.Error(t, NewLedgerSweeper(ledger).Start("not a schedule"))
	})
}
