package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"boleteria/internal/clock"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers token ids invalidated by logout until their natural
// expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedKeyPrefix = "auth:revoked:"

type RedisRevoker struct {
	redis *redis.Client
	clock clock.Clock
}

// NewRedisRevoker stores revocations as expiring redis keys
func NewRedisRevoker(client *redis.Client, clk clock.Clock) *RedisRevoker {
	return &RedisRevoker{redis: client, clock: clk}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	if err := r.redis.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redis.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryRevoker is the single-process fallback used when no Redis is
// configured. Expired entries are dropped on Revoke.
type MemoryRevoker struct {
	mu      sync.RWMutex
	clock   clock.Clock
	entries map[string]time.Time
}

// NewMemoryRevoker keeps revocations in a mutex-guarded map
func NewMemoryRevoker(clk clock.Clock) *MemoryRevoker {
	return &MemoryRevoker{clock: clk, entries: make(map[string]time.Time)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.entries {
		if !now.Before(exp) {
			delete(m.entries, id)
		}
	}
	if now.Before(expiresAt) {
		m.entries[tokenID] = expiresAt
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	exp, ok := m.entries[tokenID]
	return ok && m.clock.Now().Before(exp), nil
}

// Len returns the number of live revocations
func (m *MemoryRevoker) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
