package dashboard

import "errors"

// Sentinel errors for event handling.
var (
	ErrUnknownEvent = errors.New("unknown event type")
	ErrInvalidEvent = errors.New("invalid event")
)
