package notification

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ObserverFunc receives one notification. It is invoked synchronously on the
// goroutine that posted the notification, so implementations must be safe to
// call from any goroutine and must not block for long. Observer functions
// must not call back into the center; doing so deadlocks.
type ObserverFunc func(ctx context.Context, n Notification)

// Handle identifies one observer registration with a center.
// It is created by AddObserver and consumed by RemoveObserver.
type Handle struct {
	id   string
	name string
}

// ID returns the unique identifier of the registration.
func (h Handle) ID() string { return h.id }

// EventName returns the event name the registration observes.
func (h Handle) EventName() string { return h.name }

// IsZero reports whether the handle does not identify any registration.
func (h Handle) IsZero() bool { return h.id == "" }

type registration struct {
	handle Handle
	source any
	fn     ObserverFunc
}

// Center is an in-memory broadcast facility. Observers register a callback
// for a named event, optionally filtered by the posting source, and receive
// every matching notification posted afterwards. There is no replay: a
// notification posted before registration is never observed.
//
// Delivery is serialized under the center's lock, so each observer sees
// notifications in the exact order their Post calls were serialized, and a
// callback is never invoked after RemoveObserver for its handle returns.
//
// Example:
//
//	center := notification.NewCenter()
//	defer center.Close()
//
//	handle, err := center.AddObserver("user.created", nil, func(ctx context.Context, n notification.Notification) {
//	    log.Printf("user created: %v", n.UserInfo)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer center.RemoveObserver(handle)
//
//	center.PostName(ctx, "user.created", nil, map[string]any{"user_id": "123"})
type Center struct {
	mu        sync.Mutex
	observers map[string][]registration
	logger    *slog.Logger
	closed    bool
	done      chan struct{}
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithLogger configures structured logging for the center.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) CenterOption {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCenter creates a new in-memory notification center.
func NewCenter(opts ...CenterOption) *Center {
	c := &Center{
		observers: make(map[string][]registration),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddObserver registers fn for notifications posted under name. If source is
// non-nil, only notifications posted with that exact source are delivered;
// sources are compared with ==, so they must be comparable values.
//
// Returns a Handle that must be passed to RemoveObserver when the observer
// is no longer interested. Registration on a closed center fails with
// ErrCenterClosed.
func (c *Center) AddObserver(name string, source any, fn ObserverFunc) (Handle, error) {
	if name == "" {
		return Handle{}, ErrEmptyName
	}
	if fn == nil {
		return Handle{}, ErrNilObserver
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Handle{}, ErrCenterClosed
	}

	h := Handle{id: uuid.New().String(), name: name}
	c.observers[name] = append(c.observers[name], registration{
		handle: h,
		source: source,
		fn:     fn,
	})

	c.logger.Debug("observer registered",
		slog.String("event", name),
		slog.String("handle_id", h.id))

	return h, nil
}

// RemoveObserver unregisters the observer identified by h. It is idempotent:
// removing an unknown, already-removed, or zero handle is a no-op. Once
// RemoveObserver returns, the observer's callback will never be invoked again.
func (c *Center) RemoveObserver(h Handle) error {
	if h.IsZero() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	regs, ok := c.observers[h.name]
	if !ok {
		return nil
	}

	for i, reg := range regs {
		if reg.handle.id == h.id {
			c.observers[h.name] = append(regs[:i], regs[i+1:]...)
			if len(c.observers[h.name]) == 0 {
				delete(c.observers, h.name)
			}
			c.logger.Debug("observer removed",
				slog.String("event", h.name),
				slog.String("handle_id", h.id))
			break
		}
	}

	return nil
}

// Post delivers n to every matching observer, synchronously, on the caller's
// goroutine. Zero ID and CreatedAt fields are populated before dispatch.
// Posting on a closed center fails with ErrCenterClosed.
func (c *Center) Post(ctx context.Context, n Notification) error {
	if n.Name == "" {
		return ErrEmptyName
	}
	n = n.Normalized()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCenterClosed
	}

	for _, reg := range c.observers[n.Name] {
		if reg.source != nil && reg.source != n.Source {
			continue
		}
		reg.fn(ctx, n)
	}

	c.logger.DebugContext(ctx, "notification posted",
		slog.String("event", n.Name),
		slog.String("notification_id", n.ID))

	return nil
}

// PostName is shorthand for Post with a freshly constructed notification.
func (c *Center) PostName(ctx context.Context, name string, source any, userInfo map[string]any) error {
	if name == "" {
		return ErrEmptyName
	}
	return c.Post(ctx, New(name, source, userInfo))
}

// Close shuts the center down: all observers are removed, the Done channel
// is closed, and subsequent AddObserver and Post calls fail with
// ErrCenterClosed. Close is idempotent.
func (c *Center) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.observers = nil
	close(c.done)
	c.logger.Info("notification center closed")

	return nil
}

// Done returns a channel that is closed when the center shuts down.
// Adapters use it to observe facility teardown.
func (c *Center) Done() <-chan struct{} {
	return c.done
}

// ObserverCount returns the number of live registrations for name.
func (c *Center) ObserverCount(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers[name])
}
