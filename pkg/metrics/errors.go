package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrCollectorRunning = errors.New("metrics system collector already running")
)
