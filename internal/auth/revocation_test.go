package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"boleteria/internal/clock"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)

	t.Run("revoke stores key until expiry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		revoker := NewRedisRevoker(client, clock.NewFixed(now))

		mock.ExpectSet("auth:revoked:jti-1", "1", 30*time.Minute).SetVal("OK")

		require.NoError(t, revoker.Revoke(ctx, "jti-1", now.Add(30*time.Minute)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already expired token is not stored", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		revoker := NewRedisRevoker(client, clock.NewFixed(now))

		require.NoError(t, revoker.Revoke(ctx, "jti-2", now.Add(-time.Second)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("is revoked", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		revoker := NewRedisRevoker(client, clock.NewFixed(now))

		mock.ExpectExists("auth:revoked:jti-1").SetVal(1)
		mock.ExpectExists("auth:revoked:jti-3").SetVal(0)

		revoked, err := revoker.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = revoker.IsRevoked(ctx, "jti-3")
		require.NoError(t, err)
		assert.False(t, revoked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis failure surfaces", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		revoker := NewRedisRevoker(client, clock.NewFixed(now))

		mock.ExpectExists("auth:revoked:jti-1").SetErr(errors.New("connection refused"))

		_, err := revoker.IsRevoked(ctx, "jti-1")
		assert.Error(t, err)
	})
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC))
	revoker := NewMemoryRevoker(clk)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", clk.Now().Add(10*time.Minute)))
	require.NoError(t, revoker.Revoke(ctx, "jti-2", clk.Now().Add(time.Hour)))

	revoked, _ := revoker.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	revoked, _ = revoker.IsRevoked(ctx, "unknown")
	assert.False(t, revoked)

	clk.Advance(10 * time.Minute)
	revoked, _ = revoker.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "entry must lapse with the token")

	require.NoError(t, revoker.Revoke(ctx, "jti-3", clk.Now().Add(time.Minute)))
	assert.Equal(t, 2, revoker.Len(), "expired entries are dropped on revoke")
}
