// Package filter implements the cascading dropdown state machine of the
// dashboard's two filter tabs.
package filter

import (
	"encoding/json"

	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/types"
)

const numDimensions = int(types.DimAggPosition) + 1

// Selection is the state of one dropdown.
type Selection struct {
	// Value is nil when nothing is selected.
	Value *int64 `json:"value"`
	// Explicit is set when the user picked Value, as opposed to the
	// single-option auto-select.
	Explicit bool `json:"explicit"`
	// Options is the narrowed catalog currently offered.
	Options catalog.Catalog `json:"options"`
}

// State is the filter selection of both tabs. It is a value type: every
// transition returns a new State and never mutates its input.
type State struct {
	dims           [numDimensions]Selection
	TriggerEnabled bool
}

// Selection returns the dropdown state of dim.
func (s State) Selection(dim types.Dimension) Selection {
	if !dim.Valid() {
		return Selection{}
	}
	return s.dims[dim]
}

// Value returns the selected value of dim, explicit or derived.
func (s State) Value(dim types.Dimension) (int64, bool) {
	sel := s.Selection(dim)
	if sel.Value == nil {
		return 0, false
	}
	return *sel.Value, true
}

// PlayerSelected reports whether a player is chosen in either tab.
func (s State) PlayerSelected() bool {
	return s.dims[types.DimPlayer].Value != nil || s.dims[types.DimAggPlayer].Value != nil
}

func (s *State) set(dim types.Dimension, value *int64, explicit bool) {
	s.dims[dim].Value = clone(value)
	s.dims[dim].Explicit = explicit && value != nil
}

type stateJSON struct {
	ByPlayer       map[string]Selection `json:"by_player"`
	ByAggregate    map[string]Selection `json:"by_aggregate"`
	TriggerEnabled bool                 `json:"trigger_enabled"`
}

// MarshalJSON groups the dropdowns by tab.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		ByPlayer:       make(map[string]Selection, len(types.PlayerDimensions)),
		ByAggregate:    make(map[string]Selection, len(types.AggregateDimensions)),
		TriggerEnabled: s.TriggerEnabled,
	}
	for _, d := range types.PlayerDimensions {
		out.ByPlayer[d.String()] = s.dims[d]
	}
	for _, d := range types.AggregateDimensions {
		out.ByAggregate[d.String()] = s.dims[d]
	}
	return json.Marshal(out)
}

func clone(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
