package notification_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notify/core/notification"
)

func TestCenter_AddObserver(t *testing.T) {
	t.Parallel()

	t.Run("registers observer and returns handle", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		h, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.NoError(t, err)
		assert.False(t, h.IsZero())
		assert.Equal(t, "tick", h.EventName())
		assert.NotEmpty(t, h.ID())
		assert.Equal(t, 1, center.ObserverCount("tick"))
	})

	t.Run("rejects empty event name", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		h, err := center.AddObserver("", nil, func(ctx context.Context, n notification.Notification) {})
		require.ErrorIs(t, err, notification.ErrEmptyName)
		assert.True(t, h.IsZero())
	})

	t.Run("rejects nil observer", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		h, err := center.AddObserver("tick", nil, nil)
		require.ErrorIs(t, err, notification.ErrNilObserver)
		assert.True(t, h.IsZero())
	})

	t.Run("fails on closed center", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		require.NoError(t, center.Close())

		_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.ErrorIs(t, err, notification.ErrCenterClosed)
	})
}

func TestCenter_RemoveObserver(t *testing.T) {
	t.Parallel()

	t.Run("removed observer receives no further notifications", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		var calls int
		h, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
			calls++
		})
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, center.PostName(ctx, "tick", nil, nil))
		require.NoError(t, center.RemoveObserver(h))
		require.NoError(t, center.PostName(ctx, "tick", nil, nil))

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, center.ObserverCount("tick"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		h, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.NoError(t, err)

		require.NoError(t, center.RemoveObserver(h))
		require.NoError(t, center.RemoveObserver(h))
		require.NoError(t, center.RemoveObserver(notification.Handle{}))
	})

	t.Run("removes only the identified registration", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		h1, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.NoError(t, err)
		_, err = center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.NoError(t, err)

		require.NoError(t, center.RemoveObserver(h1))
		assert.Equal(t, 1, center.ObserverCount("tick"))
	})
}

func TestCenter_Post(t *testing.T) {
	t.Parallel()

	t.Run("delivers to matching observers in registration order", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		var order []string
		for _, id := range []string{"a", "b"} {
			_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
				order = append(order, id)
			})
			require.NoError(t, err)
		}

		require.NoError(t, center.PostName(context.Background(), "tick", nil, nil))
		assert.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("does not deliver to other event names", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		var calls int
		_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
			calls++
		})
		require.NoError(t, err)

		require.NoError(t, center.PostName(context.Background(), "tock", nil, nil))
		assert.Equal(t, 0, calls)
	})

	t.Run("populates ID and CreatedAt", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		var got notification.Notification
		_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
			got = n
		})
		require.NoError(t, err)

		require.NoError(t, center.Post(context.Background(), notification.Notification{Name: "tick"}))
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		defer center.Close()

		err := center.Post(context.Background(), notification.Notification{})
		require.ErrorIs(t, err, notification.ErrEmptyName)
	})

	t.Run("fails on closed center", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		require.NoError(t, center.Close())

		err := center.PostName(context.Background(), "tick", nil, nil)
		require.ErrorIs(t, err, notification.ErrCenterClosed)
	})
}

func TestCenter_SourceFilter(t *testing.T) {
	t.Parallel()

	center := notification.NewCenter()
	defer center.Close()

	sourceA := "source-a"
	sourceB := "source-b"

	var fromA, fromAny int
	_, err := center.AddObserver("tick", sourceA, func(ctx context.Context, n notification.Notification) {
		fromA++
	})
	require.NoError(t, err)
	_, err = center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
		fromAny++
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, center.PostName(ctx, "tick", sourceA, nil))
	require.NoError(t, center.PostName(ctx, "tick", sourceB, nil))
	require.NoError(t, center.PostName(ctx, "tick", nil, nil))

	assert.Equal(t, 1, fromA, "filtered observer sees only its source")
	assert.Equal(t, 3, fromAny, "unfiltered observer sees every source")
}

func TestCenter_Close(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent and signals done", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter(
			notification.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

		require.NoError(t, center.Close())
		require.NoError(t, center.Close())

		select {
		case <-center.Done():
		default:
			t.Fatal("done channel must be closed after Close")
		}
	})

	t.Run("removes all observers", func(t *testing.T) {
		t.Parallel()

		center := notification.NewCenter()
		_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {})
		require.NoError(t, err)

		require.NoError(t, center.Close())
		assert.Equal(t, 0, center.ObserverCount("tick"))
	})
}

func TestCenter_ConcurrentPosters(t *testing.T) {
	t.Parallel()

	center := notification.NewCenter()
	defer center.Close()

	var (
		mu    sync.Mutex
		total int
	)
	_, err := center.AddObserver("tick", nil, func(ctx context.Context, n notification.Notification) {
		mu.Lock()
		total++
		mu.Unlock()
	})
	require.NoError(t, err)

	const posters = 8
	const perEach = 100

	var wg sync.WaitGroup
	for range posters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perEach {
				_ = center.PostName(context.Background(), "tick", nil, nil)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, posters*perEach, total)
}
