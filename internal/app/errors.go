package service

import "errors"

// ErrNotStarted is returned by session operations before Start succeeds.
var ErrNotStarted = errors.New("service not started")
