// Package types contains small enumerations shared across the application.
package types

import (
	"fmt"
	"strings"
)

// Mode is the active filter tab.
type Mode int

const (
	ModeByPlayer Mode = iota
	ModeByAggregate
)

var modeNames = [...]string{
	ModeByPlayer:    "by_player",
	ModeByAggregate: "by_aggregate",
}

func (m Mode) String() string {
	if int(m) < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m >= 0 && int(m) < len(modeNames) }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode accepts the mode names and the dashboard tab ids.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "by_player", "by_player_tab":
		return ModeByPlayer, nil
	case "by_aggregate", "by_pos", "by_pos_tab":
		return ModeByAggregate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Dimension is one filterable column.
type Dimension int

const (
	DimPlayer Dimension = iota
	DimPosition
	DimTeam
	DimMatch
	DimAggPlayer
	DimAggPosition
)

var dimensionNames = [...]string{
	DimPlayer:      "player",
	DimPosition:    "position",
	DimTeam:        "team",
	DimMatch:       "match",
	DimAggPlayer:   "agg_player",
	DimAggPosition: "agg_position",
}

// PlayerDimensions are the by-player mode dimensions in display order.
var PlayerDimensions = []Dimension{DimTeam, DimPosition, DimMatch, DimPlayer}

// AggregateDimensions are the by-aggregate mode dimensions in display order.
var AggregateDimensions = []Dimension{DimAggPosition, DimAggPlayer}

func (d Dimension) String() string {
	if int(d) < 0 || int(d) >= len(dimensionNames) {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool { return d >= 0 && int(d) < len(dimensionNames) }

// Mode returns the tab the dimension belongs to.
func (d Dimension) Mode() Mode {
	if d == DimAggPlayer || d == DimAggPosition {
		return ModeByAggregate
	}
	return ModeByPlayer
}

// MarshalText implements encoding.TextMarshaler.
func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(b []byte) error {
	v, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDimension accepts dimension names and the legacy "game" alias.
func ParseDimension(s string) (Dimension, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "game" {
		return DimMatch, nil
	}
	for i, name := range dimensionNames {
		if name == s {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}
