// Package model contains domain models passed between layers.
package model

import "math"

// Pitch dimensions in StatsBomb units.
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
)

// Point is a pitch coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Within reports whether p lies on the pitch extended by margin on every side.
func (p Point) Within(margin float64) bool {
	return p.X >= -margin && p.X <= PitchLength+margin &&
		p.Y >= -margin && p.Y <= PitchWidth+margin
}

// PassEvent is one recorded pass.
type PassEvent struct {
	ID           string  // event uuid, also the marker click identifier
	PlayerID     int64   // passer
	PlayerName   string  // passer display name
	PositionID   int64   // position played at event time
	PositionName string  // position display name
	TeamID       int64   // passer's team
	MatchID      int64   // match the pass belongs to
	MatchName    string  // match display name
	XT           float64 // expected threat added by the pass
	XTText       string  // xT as exported upstream, may be empty
	Timestamp    string  // match clock, kept verbatim
	Location     Point   // origin
	EndLocation  Point   // destination, meaningful only when HasEnd
	HasEnd       bool
	HoverText    string // derived at load time
	// FreezeFrameRaw is the 360 snapshot as exported upstream. It is parsed
	// lazily when the detail view is opened.
	FreezeFrameRaw string
}
