// Package stream adapts callback-driven notification delivery into
// pull-based sequential consumption. Instead of reacting inside nested
// callbacks, consumers ask for the next notification one at a time and
// process the sequence with ordinary control flow.
//
// # Core Components
//
// Queue is the bridging primitive: an unbounded FIFO buffer with a
// synchronous, never-blocking Push callable from any goroutine and a
// suspending Next serving a single consumer. Elements come out in the exact
// order pushes were serialized; closure is terminal and sticky, and queued
// elements still drain after Close. Queue is generic and usable on its own
// wherever many producers feed one sequential consumer.
//
// Stream ties a Queue to one observer registration with a Broadcaster.
// Every matching notification is pushed into the queue by the callback; the
// consumer pulls with Next or ranges with All. The registration lives
// exactly as long as the consumable sequence: it is removed when the stream
// is exhausted, or when the consumer closes an unfinished stream.
//
// # Basic Usage
//
//	center := notification.NewCenter()
//	defer center.Close()
//
//	s, err := stream.New(center, "job.completed")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	for {
//	    n, ok, err := s.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    fmt.Printf("completed: %v\n", n.UserInfo)
//	}
//
// Or with range-over-func iteration:
//
//	for n := range s.All(ctx) {
//	    fmt.Printf("completed: %v\n", n.UserInfo)
//	}
//
// # Concurrency Model
//
// Producers are never blocked or slowed: Push appends or hands the element
// directly to a suspended consumer and returns. There is no back-pressure,
// no bounded buffering, and no drop policy. Exactly one consumer may pull
// from a stream; create one stream per consumer for fan-out.
//
// # Lifecycle
//
// A stream observes only notifications posted after its creation (no
// replay). It ends when the facility shuts down or the consumer stops:
// breaking out of All, or calling Close, removes the registration so no
// further callbacks fire. Teardown is exactly-once and never surfaces an
// error to the consumer.
package stream
