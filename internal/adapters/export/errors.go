package export

import "errors"

// Sentinel errors for figure export.
var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrRender            = errors.New("figure render failed")
)
