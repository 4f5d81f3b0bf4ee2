package session

import "errors"

// Sentinel errors for the session store.
var (
	ErrNotFound    = errors.New("session not found")
	ErrInvalidSize = errors.New("invalid session store size")
)
