package types

import "errors"

// Sentinel kinds for enumeration parsing.
var (
	ErrUnknownMode      = errors.New("unknown mode")
	ErrUnknownDimension = errors.New("unknown dimension")
)
