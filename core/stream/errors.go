package stream

import "errors"

var (
	// ErrNilBroadcaster is returned when a stream is created without a
	// broadcast facility.
	ErrNilBroadcaster = errors.New("broadcaster must not be nil")
)
