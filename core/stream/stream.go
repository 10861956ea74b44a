package stream

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notify/core/notification"
)

// Broadcaster is the subset of a notification center consumed by Stream.
// It is an injected dependency so streams can be exercised against any
// facility implementation, including test doubles.
type Broadcaster interface {
	AddObserver(name string, source any, fn notification.ObserverFunc) (notification.Handle, error)
	RemoveObserver(h notification.Handle) error
}

// doneNotifier is implemented by facilities that signal their own teardown,
// such as notification.Center. Streams end when the facility shuts down.
type doneNotifier interface {
	Done() <-chan struct{}
}

// Stream adapts one observer registration into a pull-based sequence of
// notifications. Each Stream owns a fresh Queue and a fresh registration
// created at construction time; notifications posted before construction are
// never observed.
//
// A Stream is a single-use forward-only cursor for exactly one consumer.
// The registration is removed exactly once: when Next reports exhaustion, or
// when the consumer calls Close without draining the stream. Callers that do
// not consume a stream to completion must call Close to release the
// registration.
//
// Example:
//
//	s, err := stream.New(center, "order.paid")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	for {
//	    n, ok, err := s.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    process(n)
//	}
type Stream struct {
	queue    *Queue[notification.Notification]
	source   Broadcaster
	handle   notification.Handle
	logger   *slog.Logger
	teardown sync.Once
	stop     chan struct{}
}

type config struct {
	source any
	logger *slog.Logger
}

// Option configures a Stream.
type Option func(*config)

// WithSource restricts the stream to notifications posted with the given
// source. Sources are compared by the facility; see Broadcaster.AddObserver.
func WithSource(source any) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithLogger configures structured logging for teardown diagnostics.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a stream of notifications posted under name. It registers an
// observer with b immediately, so the stream's observation window starts at
// the moment New returns. Registration failures are propagated; a stream is
// never silently empty.
//
// Each call creates an independent queue and registration, so any number of
// streams may observe the same event concurrently.
func New(b Broadcaster, name string, opts ...Option) (*Stream, error) {
	if b == nil {
		return nil, ErrNilBroadcaster
	}

	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	q := NewQueue[notification.Notification]()
	h, err := b.AddObserver(name, cfg.source, func(_ context.Context, n notification.Notification) {
		q.Push(n)
	})
	if err != nil {
		return nil, fmt.Errorf("stream: register observer for %q: %w", name, err)
	}

	s := &Stream{
		queue:  q,
		source: b,
		handle: h,
		logger: cfg.logger,
		stop:   make(chan struct{}),
	}

	if dn, ok := b.(doneNotifier); ok {
		go s.watch(dn.Done())
	}

	return s, nil
}

// watch closes the queue when the facility shuts down, so the consumer
// drains what was already buffered and then sees the terminal signal.
func (s *Stream) watch(done <-chan struct{}) {
	select {
	case <-done:
		s.queue.Close()
	case <-s.stop:
	}
}

// Next returns the next notification in posting order. It suspends while the
// stream is empty and open, returns ok == false once the stream is exhausted
// (terminal and sticky), and returns ctx.Err() if ctx is cancelled while
// waiting. On exhaustion the observer registration is removed before Next
// returns, so no callback outlives the consumable sequence.
func (s *Stream) Next(ctx context.Context) (notification.Notification, bool, error) {
	n, ok, err := s.queue.Next(ctx)
	if !ok && err == nil {
		s.close()
	}
	return n, ok, err
}

// Close ends the stream: the observer registration is removed and the queue
// is closed. It is the required cleanup path for consumers that abandon a
// stream before exhaustion, and is safe to call multiple times or after
// exhaustion. Close never fails; removal errors are swallowed as teardown
// is best-effort.
func (s *Stream) Close() error {
	s.close()
	return nil
}

func (s *Stream) close() {
	s.teardown.Do(func() {
		close(s.stop)
		s.queue.Close()
		if err := s.source.RemoveObserver(s.handle); err != nil {
			s.logger.Debug("failed to remove observer",
				slog.String("event", s.handle.EventName()),
				slog.String("handle_id", s.handle.ID()),
				slog.String("error", err.Error()))
		}
	})
}

// Len returns the number of notifications buffered and not yet consumed.
func (s *Stream) Len() int {
	return s.queue.Len()
}

// All returns a range-over-func view of the stream. Iteration ends when the
// stream is exhausted, ctx is cancelled, or the loop body breaks; in every
// case the stream is closed when the loop ends.
//
// Example:
//
//	s, err := stream.New(center, "order.paid")
//	if err != nil {
//	    return err
//	}
//	for n := range s.All(ctx) {
//	    process(n)
//	}
func (s *Stream) All(ctx context.Context) iter.Seq[notification.Notification] {
	return func(yield func(notification.Notification) bool) {
		defer s.Close()
		for {
			n, ok, err := s.Next(ctx)
			if err != nil || !ok {
				return
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Notifications creates a stream for name and returns it as an iter.Seq in
// one call. Each invocation produces an independent stream with its own
// registration. The sequence is single-use; iterate it exactly once.
func Notifications(b Broadcaster, name string, opts ...Option) (iter.Seq[notification.Notification], error) {
	s, err := New(b, name, opts...)
	if err != nil {
		return nil, err
	}
	return s.All(context.Background()), nil
}
