// file: service/revocation.go

package service

import (
	"context"
	"go-blog-api/repository"
	"sync"
	"time"
)

// RevocationLedger records token identifiers that must be rejected even when
// the token is otherwise valid. Revocation is monotonic: entries only disappear
// through Sweep, once the token they name has expired on its own.
type RevocationLedger interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// PersistentLedger stores the ledger in the database through ITokenRepository.
type PersistentLedger struct {
	repo repository.ITokenRepository
}

func NewPersistentLedger(repo repository.ITokenRepository) *PersistentLedger {
	return &PersistentLedger{repo: repo}
}

func (l *PersistentLedger) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return l.repo.Revoke(ctx, tokenID, expiresAt)
}

func (l *PersistentLedger) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return l.repo.IsRevoked(ctx, tokenID)
}

func (l *PersistentLedger) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return l.repo.DeleteExpired(ctx, now)
}

// MemoryLedger keeps the ledger in process memory.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]time.Time)}
}

// Revoke keeps the later of the stored and the given expiry.
func (l *MemoryLedger) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current, ok := l.entries[tokenID]; !ok || expiresAt.After(current) {
		l.entries[tokenID] = expiresAt
	}
	return nil
}

func (l *MemoryLedger) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[tokenID]
	return ok, nil
}

func (l *MemoryLedger) Sweep(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var removed int64
	for id, exp := range l.entries {
		if exp.Before(now) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
