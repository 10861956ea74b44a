// Package notification provides a broadcast facility keyed by event name
// with optional source filtering. Observers register a callback for a named
// event and receive every matching notification posted afterwards.
//
// # Core Types
//
// Notification carries one occurrence of a named event: the event name, an
// optional reference to the posting source, and an arbitrary key/value
// payload. Notifications are assigned UUIDs and timestamps when posted.
//
// Center is the in-memory registry. It is safe for concurrent use: any
// goroutine may post, and delivery to each observer follows the order in
// which Post calls were serialized by the center.
//
// Handle identifies one registration. Removal is idempotent, and a callback
// is never invoked after RemoveObserver for its handle returns.
//
// # Basic Usage
//
//	center := notification.NewCenter()
//	defer center.Close()
//
//	handle, err := center.AddObserver("order.paid", nil, func(ctx context.Context, n notification.Notification) {
//	    fmt.Printf("order paid: %v\n", n.UserInfo)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer center.RemoveObserver(handle)
//
//	center.PostName(ctx, "order.paid", nil, map[string]any{"order_id": "o_42"})
//
// # Source Filtering
//
// Passing a non-nil source to AddObserver restricts delivery to
// notifications posted with that exact source. Sources are compared with ==,
// so they must be comparable values (typically a pointer or a string key):
//
//	checkout := &CheckoutService{}
//	center.AddObserver("order.paid", checkout, onPaid) // only checkout's posts
//	center.AddObserver("order.paid", nil, onAnyPaid)   // posts from any source
//
// # Pull-Based Consumption
//
// For sequential consumption with ordinary control flow instead of
// callbacks, see the core/stream package, which adapts a center registration
// into a pull-based stream of notifications.
package notification
