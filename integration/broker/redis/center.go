package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notify/core/notification"
)

// Center is a notification center backed by Redis Pub/Sub, so notifications
// posted by one process are observed in every process subscribed to the same
// channel prefix. It satisfies the stream.Broadcaster interface, which makes
// it a drop-in replacement for the in-memory notification.Center:
//
//	client, err := redisbroker.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	center, err := redisbroker.NewCenter(ctx, client)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer center.Close()
//
//	s, err := stream.New(center, "order.paid")
//
// Posted notifications are marshaled to JSON, so Source and UserInfo values
// round-trip through encoding/json: a struct source arrives at observers as
// a map. Source filters therefore only match values that compare equal after
// that round trip; string or numeric sources are the practical choice.
type Center struct {
	client *redis.Client
	local  *notification.Center
	prefix string
	logger *slog.Logger
	pubsub *redis.PubSub
	wg     sync.WaitGroup
	closed atomic.Bool
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithChannelPrefix sets the Redis channel prefix for posted notifications.
// Default is "notify:". An event named "order.paid" is published on the
// channel "notify:order.paid".
func WithChannelPrefix(prefix string) CenterOption {
	return func(c *Center) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithCenterLogger configures structured logging for the center.
// If not set, logging is discarded.
func WithCenterLogger(logger *slog.Logger) CenterOption {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCenter creates a Redis-backed notification center on an established
// client. It subscribes to the channel prefix pattern and starts the receive
// loop; subscription failures are returned, never hidden behind a silently
// empty center.
func NewCenter(ctx context.Context, client *redis.Client, opts ...CenterOption) (*Center, error) {
	c := &Center{
		client: client,
		local:  notification.NewCenter(),
		prefix: "notify:",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.pubsub = client.PSubscribe(ctx, c.prefix+"*")
	if _, err := c.pubsub.Receive(ctx); err != nil {
		_ = c.pubsub.Close()
		_ = c.local.Close()
		return nil, fmt.Errorf("redis broker: subscribe to %q: %w", c.prefix+"*", err)
	}

	c.wg.Add(1)
	go c.receive()

	return c, nil
}

// AddObserver registers fn for notifications posted under name, from this or
// any other process sharing the channel prefix. See notification.Center.
func (c *Center) AddObserver(name string, source any, fn notification.ObserverFunc) (notification.Handle, error) {
	return c.local.AddObserver(name, source, fn)
}

// RemoveObserver unregisters the observer identified by h. Idempotent.
func (c *Center) RemoveObserver(h notification.Handle) error {
	return c.local.RemoveObserver(h)
}

// Post publishes n to Redis. Delivery to local observers happens through the
// receive loop, exactly as for notifications posted by other processes, so
// each observer sees a single, consistently ordered feed.
func (c *Center) Post(ctx context.Context, n notification.Notification) error {
	if c.closed.Load() {
		return ErrCenterClosed
	}
	if n.Name == "" {
		return notification.ErrEmptyName
	}
	n = n.Normalized()

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redis broker: marshal notification: %w", err)
	}

	if err := c.client.Publish(ctx, c.prefix+n.Name, data).Err(); err != nil {
		return fmt.Errorf("redis broker: publish %q: %w", n.Name, err)
	}

	c.logger.DebugContext(ctx, "notification published",
		slog.String("event", n.Name),
		slog.String("notification_id", n.ID))

	return nil
}

// PostName is shorthand for Post with a freshly constructed notification.
func (c *Center) PostName(ctx context.Context, name string, source any, userInfo map[string]any) error {
	if name == "" {
		return notification.ErrEmptyName
	}
	return c.Post(ctx, notification.New(name, source, userInfo))
}

// Done returns a channel that is closed when the center shuts down.
func (c *Center) Done() <-chan struct{} {
	return c.local.Done()
}

// Close unsubscribes from Redis, stops the receive loop, and shuts down the
// local observer registry, which ends every stream attached to this center.
// Close is idempotent and does not close the underlying Redis client.
func (c *Center) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := c.pubsub.Close()
	c.wg.Wait()
	return errors.Join(err, c.local.Close())
}

func (c *Center) receive() {
	defer c.wg.Done()

	for msg := range c.pubsub.Channel() {
		var n notification.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			c.logger.Error("failed to unmarshal notification",
				slog.String("channel", msg.Channel),
				slog.String("error", err.Error()))
			continue
		}

		if err := c.local.Post(context.Background(), n); err != nil {
			c.logger.Error("failed to dispatch notification",
				slog.String("event", n.Name),
				slog.String("error", err.Error()))
		}
	}
}
