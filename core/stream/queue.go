package stream

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO buffer that bridges any number of concurrent
// producers and a single pull-based consumer. Producers push synchronously
// and are never blocked; the consumer suspends in Next until an element
// arrives or the queue is closed.
//
// Elements are delivered in the exact order their Push calls were serialized
// by the queue's internal lock. Closure is terminal and sticky: elements
// queued before Close still drain in order, and once the queue is drained
// every further Next returns immediately with ok == false.
//
// Only one Next call may be in flight at a time; the queue is a
// single-consumer primitive and concurrent pulls are a usage error.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	waiter chan T
	closed bool
}

// NewQueue creates an empty open queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends v to the queue, or hands it directly to a consumer suspended
// in Next. It never blocks and is safe to call from any goroutine. Pushing
// on a closed queue is a silent no-op; producers are not guaranteed to
// observe closure synchronously.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	if q.waiter != nil {
		// Direct handoff: the channel is buffered, so the send under the
		// lock never blocks even if the waiter has already given up.
		q.waiter <- v
		q.waiter = nil
		return
	}

	q.items = append(q.items, v)
}

// Close marks the queue closed and wakes a suspended consumer, if any.
// Already-queued elements are still delivered in order. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	if q.waiter != nil {
		close(q.waiter)
		q.waiter = nil
	}
}

// Next returns the oldest queued element. If the queue is empty and open,
// the call suspends until a producer pushes or the queue is closed. Once the
// queue is closed and drained, Next returns (zero, false, nil) on every call.
//
// Cancelling ctx resumes the call with ctx.Err() without consuming or
// reordering any element; the queue stays usable for a later Next.
func (q *Queue[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	q.mu.Lock()
	if len(q.items) > 0 {
		v := q.items[0]
		q.items[0] = zero
		q.items = q.items[1:]
		q.mu.Unlock()
		return v, true, nil
	}
	if q.closed {
		q.mu.Unlock()
		return zero, false, nil
	}

	w := make(chan T, 1)
	q.waiter = w
	q.mu.Unlock()

	select {
	case v, ok := <-w:
		if !ok {
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		q.mu.Lock()
		if q.waiter == w {
			q.waiter = nil
			q.mu.Unlock()
			return zero, false, ctx.Err()
		}
		q.mu.Unlock()

		// A racing Push or Close resolved the waiter before we could
		// withdraw it. A handed-off element predates everything appended
		// afterwards, so it goes back to the front.
		select {
		case v, ok := <-w:
			if ok {
				q.mu.Lock()
				q.items = append([]T{v}, q.items...)
				q.mu.Unlock()
			}
		default:
		}
		return zero, false, ctx.Err()
	}
}

// Len returns the number of currently queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
