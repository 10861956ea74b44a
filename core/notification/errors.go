package notification

import "errors"

var (
	// ErrCenterClosed is returned when registering an observer or posting
	// a notification on a closed center.
	ErrCenterClosed = errors.New("notification center is closed")

	// ErrEmptyName is returned when an event name is empty.
	ErrEmptyName = errors.New("event name must not be empty")

	// ErrNilObserver is returned when a nil observer function is registered.
	ErrNilObserver = errors.New("observer function must not be nil")
)
