package sampledata

import "errors"

// Sentinel errors for sample generation.
var (
	ErrInvalidConfig = errors.New("invalid sample config")
	ErrVerify        = errors.New("sample verification failed")
	ErrSmokeCheck    = errors.New("dashboard smoke check failed")
)
