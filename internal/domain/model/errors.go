package model

import "errors"

// Sentinel kinds for freeze-frame decoding.
var (
	ErrNoFreezeFrame        = errors.New("pass has no freeze frame")
	ErrMalformedFreezeFrame = errors.New("malformed freeze frame")
)
