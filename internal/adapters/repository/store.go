// Package repository loads the pass and match tables and exposes them as a
// read-only dataset handle.
package repository

import "github.com/okian/passmap/internal/domain/model"

// Store provides read access to the loaded tables. Implementations are
// immutable after construction and safe for concurrent readers.
type Store interface {
	// Passes returns every pass in file order. Callers must not modify it.
	Passes() []model.PassEvent
	// Matches returns every match in file order. Callers must not modify it.
	Matches() []model.Match

	// PassByID looks up a pass by its event id.
	PassByID(id string) (model.PassEvent, bool)
	// MatchByID looks up a match by id.
	MatchByID(id int64) (model.Match, bool)

	// Count returns the number of passes.
	Count() int
	// MatchCount returns the number of matches.
	MatchCount() int
}

// Dataset is the in-memory Store built once at startup.
type Dataset struct {
	passes   []model.PassEvent
	matches  []model.Match
	passIdx  map[string]int
	matchIdx map[int64]int
	margin   float64
}

var _ Store = (*Dataset)(nil)

// Passes returns every pass in file order.
func (d *Dataset) Passes() []model.PassEvent { return d.passes }

// Matches returns every match in file order.
func (d *Dataset) Matches() []model.Match { return d.matches }

// PassByID looks up a pass by its event id.
func (d *Dataset) PassByID(id string) (model.PassEvent, bool) {
	i, ok := d.passIdx[id]
	if !ok {
		return model.PassEvent{}, false
	}
	return d.passes[i], true
}

// MatchByID looks up a match by id.
func (d *Dataset) MatchByID(id int64) (model.Match, bool) {
	i, ok := d.matchIdx[id]
	if !ok {
		return model.Match{}, false
	}
	return d.matches[i], true
}

// Count returns the number of passes.
func (d *Dataset) Count() int { return len(d.passes) }

// MatchCount returns the number of matches.
func (d *Dataset) MatchCount() int { return len(d.matches) }

// PitchMargin returns the coordinate tolerance the dataset was validated with.
func (d *Dataset) PitchMargin() float64 { return d.margin }
