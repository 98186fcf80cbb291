package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/tadka/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newCache(t *testing.T) (*Cache, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, instrument.NewNoop()), client
}

func TestCache_Denylist(t *testing.T) {
	s, client := newCache(t)
	ctx := context.Background()

	// Arrange
	revoked, err := s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	// Act
	first, err1 := s.RevokeToken(ctx, "jti-1", time.Hour)
	second, err2 := s.RevokeToken(ctx, "jti-1", time.Hour)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, first)
	assert.False(t, second)

	revoked, err = s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, prefixDenylist+"jti-1").Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
}

func TestCache_VerifyAttempts(t *testing.T) {
	s, client := newCache(t)
	ctx := context.Background()
	window := time.Date(2026, 10, 15, 10, 5, 0, 0, time.UTC)

	n, err := s.CountVerifyAttempts(ctx, "abc", window)
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := int64(1); want <= 3; want++ {
		got, err := s.IncrVerifyAttempts(ctx, "abc", window, 2*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	n, err = s.CountVerifyAttempts(ctx, "abc", window)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	t.Run("a new window starts from zero", func(t *testing.T) {
		n, err := s.CountVerifyAttempts(ctx, "abc", window.Add(10*time.Minute))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("counter expires with the window", func(t *testing.T) {
		ttl, err := client.TTL(ctx, attemptsKey("abc", window)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 2*time.Minute)
	})
}
