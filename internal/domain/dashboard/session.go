package dashboard

import (
	"errors"

	"github.com/okian/passmap/internal/domain/filter"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/internal/domain/types"
)

// Detail failure reasons.
const (
	ReasonNotFound         = "not_found"
	ReasonNoFreezeFrame    = "no_freeze_frame"
	ReasonMalformedFrame   = "malformed_freeze_frame"
	ReasonUnexpectedDetail = "unexpected"
)

// Detail is the freeze frame modal.
type Detail struct {
	Open   bool           `json:"open"`
	PassID string         `json:"pass_id,omitempty"`
	Title  string         `json:"title,omitempty"`
	Figure *render.Figure `json:"figure,omitempty"`
	// Error and Reason describe why a selected pass could not be shown.
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Session is everything one open dashboard shows.
type Session struct {
	Seq      uint64        `json:"seq"`
	Filter   filter.State  `json:"filter"`
	Mode     types.Mode    `json:"mode"`
	Range    render.Range  `json:"range"`
	Figure   render.Figure `json:"figure"`
	Rendered bool          `json:"rendered"`
	Detail   Detail        `json:"detail"`
}

// FailureReason classifies a detail error.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, render.ErrPassNotFound):
		return ReasonNotFound
	case errors.Is(err, model.ErrNoFreezeFrame):
		return ReasonNoFreezeFrame
	case errors.Is(err, model.ErrMalformedFreezeFrame):
		return ReasonMalformedFrame
	}
	return ReasonUnexpectedDetail
}
