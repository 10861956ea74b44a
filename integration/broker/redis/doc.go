// Package redis provides a Redis-backed notification center for
// cross-process broadcast delivery, plus client initialization with retry
// logic and health checking.
//
// This package wraps the go-redis client with connection validation and
// configuration optimized for reliable connectivity, and layers a
// notification.Center-compatible broadcast facility on Redis Pub/Sub.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		ChannelPrefix  string        `env:"REDIS_NOTIFY_PREFIX" envDefault:"notify:"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
//
// # Usage Example
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/dmitrymomot/notify/core/config"
//		"github.com/dmitrymomot/notify/core/stream"
//		redisbroker "github.com/dmitrymomot/notify/integration/broker/redis"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		var cfg redisbroker.Config
//		config.MustLoad(&cfg)
//
//		client, err := redisbroker.Connect(ctx, cfg)
//		if err != nil {
//			log.Fatal("failed to connect to redis:", err)
//		}
//		defer client.Close()
//
//		center, err := redisbroker.NewCenter(ctx, client,
//			redisbroker.WithChannelPrefix(cfg.ChannelPrefix))
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer center.Close()
//
//		s, err := stream.New(center, "order.paid")
//		if err != nil {
//			log.Fatal(err)
//		}
//		for n := range s.All(ctx) {
//			log.Printf("order paid: %v", n.UserInfo)
//		}
//	}
//
// # Delivery Semantics
//
// Post marshals the notification to JSON and publishes it on the channel
// <prefix><event name>. Local observers receive it through the same Pub/Sub
// receive loop as remote processes, so every observer sees one consistently
// ordered feed. Redis Pub/Sub is fire-and-forget: there is no replay, and a
// process that is not subscribed at publish time never sees the message,
// matching the no-replay semantics of the in-memory center.
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using
// errors.Is():
//
//   - ErrFailedToParseConnString: the Redis connection URL is malformed
//   - ErrRedisNotReady: Redis did not become ready within the timeout
//   - ErrEmptyConnectionURL: no connection URL was provided
//   - ErrHealthcheckFailed: health check ping failed
//   - ErrCenterClosed: posting on a closed center
//
// # Health Checking
//
// Healthcheck returns a probe function for readiness/liveness endpoints:
//
//	check := redisbroker.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// report unhealthy
//	}
package redis
