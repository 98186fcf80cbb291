package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
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

	return client
}

func TestStateTracker_Exec(t *testing.T) {
	tracker := New(newRedis(t))
	ctx := context.Background()

	t.Run("runs once then reports completed", func(t *testing.T) {
		// Arrange
		calls := 0
		fn := func(context.Context) error { calls++; return nil }

		// Act
		first := tracker.Exec(ctx, "welcome:1", fn)
		second := tracker.Exec(ctx, "welcome:1", fn)

		// Assert
		require.NoError(t, first)
		assert.ErrorIs(t, second, ErrAlreadyCompleted)
		assert.Equal(t, 1, calls)
	})

	t.Run("failure is remembered unless retry is allowed", func(t *testing.T) {
		// Arrange
		boom := errors.New("smtp down")
		calls := 0
		failing := func(context.Context) error { calls++; return boom }
		ok := func(context.Context) error { calls++; return nil }

		// Act
		err1 := tracker.Exec(ctx, "welcome:2", failing)
		err2 := tracker.Exec(ctx, "welcome:2", ok)
		err3 := tracker.Exec(ctx, "welcome:2", ok, WithRetryFailed())

		// Assert
		assert.ErrorIs(t, err1, boom)
		assert.ErrorIs(t, err2, ErrAlreadyFailed)
		assert.NoError(t, err3)
		assert.Equal(t, 2, calls)
	})

	t.Run("in progress key blocks a second caller", func(t *testing.T) {
		st, err := tracker.Acquire(ctx, "welcome:3", defaultLockDuration)
		require.NoError(t, err)
		require.Equal(t, StateNone, st)

		err = tracker.Exec(ctx, "welcome:3", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrAlreadyInProgress)
	})
}
