package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisbroker "github.com/dmitrymomot/notify/integration/broker/redis"
)

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty connection URL", func(t *testing.T) {
		t.Parallel()

		client, err := redisbroker.Connect(context.Background(), redisbroker.Config{})
		require.ErrorIs(t, err, redisbroker.ErrEmptyConnectionURL)
		assert.Nil(t, client)
	})

	t.Run("malformed connection URL", func(t *testing.T) {
		t.Parallel()

		cfg := redisbroker.Config{ConnectionURL: "http://localhost:6379"}
		client, err := redisbroker.Connect(context.Background(), cfg)
		require.ErrorIs(t, err, redisbroker.ErrFailedToParseConnString)
		assert.Nil(t, client)
	})

	t.Run("unreachable server reports not ready", func(t *testing.T) {
		t.Parallel()

		cfg := redisbroker.Config{
			// Port 1 is reserved and refuses connections immediately.
			ConnectionURL:  "redis://127.0.0.1:1/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		}
		client, err := redisbroker.Connect(context.Background(), cfg)
		require.ErrorIs(t, err, redisbroker.ErrRedisNotReady)
		assert.Nil(t, client)
	})
}
