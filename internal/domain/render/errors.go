package render

import "errors"

// Sentinel errors for rendering.
var (
	ErrPassNotFound = errors.New("pass not found")
	ErrInvalidRange = errors.New("invalid xT range")
)
