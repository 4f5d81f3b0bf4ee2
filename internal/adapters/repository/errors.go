package repository

import "errors"

// Sentinel kinds for dataset loading. Every load failure wraps
// ErrLoadDataset and, where known, one of the more specific kinds.
var (
	ErrLoadDataset    = errors.New("load dataset failed")
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedRow   = errors.New("malformed row")
	ErrDuplicateMatch = errors.New("duplicate match id")
	ErrDuplicatePass  = errors.New("duplicate pass id")
	ErrUnknownMatch   = errors.New("pass references unknown match")
	ErrUnknownTeam    = errors.New("pass team is not a side of its match")
)
