package filter

import (
	"context"

	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/types"
	"github.com/okian/passmap/pkg/logger"
)

// PassSource is the read side of the dataset the engine filters.
type PassSource interface {
	Passes() []model.PassEvent
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine computes filter transitions over the immutable dataset. It holds
// no per-session state and is safe for concurrent use.
type Engine struct {
	passes []model.PassEvent
	aggs   []model.PlayerAggregate
	full   catalog.Set
	log    logger.Logger
}

// New creates an engine over the dataset, its aggregates and the full catalogs.
func New(src PassSource, aggs []model.PlayerAggregate, full catalog.Set, opts ...Option) *Engine {
	e := &Engine{
		passes: src.Passes(),
		aggs:   aggs,
		full:   full,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("filter")
	}
	return e
}

// Catalogs returns the full catalogs.
func (e *Engine) Catalogs() catalog.Set { return e.full }

// Initial returns the state with nothing selected and every catalog full.
func (e *Engine) Initial() State {
	var s State
	for i := range s.dims {
		s.dims[i].Options = e.full.For(types.Dimension(i))
	}
	return s
}

// Clear resets both tabs.
func (e *Engine) Clear(State) State {
	return e.Initial()
}

// Change applies a dropdown change. Only dropdowns of dim's tab are touched.
// An unknown dimension leaves the state as is.
func (e *Engine) Change(s State, dim types.Dimension, value *int64) State {
	if !dim.Valid() {
		return s
	}
	s.set(dim, value, true)

	// A dropdown that just got a value keeps its options so the user can
	// switch; a cleared one is narrowed like the rest.
	keep := dim
	if value == nil {
		keep = noDimension
	}
	if dim.Mode() == types.ModeByAggregate {
		e.cascadeAggregate(&s, keep)
	} else {
		e.cascadePlayer(&s, keep)
	}
	s.TriggerEnabled = s.PlayerSelected()

	e.log.Debug(context.Background(), "filter changed",
		logger.String("dimension", dim.String()),
		logger.Bool("cleared", value == nil),
		logger.Bool("trigger_enabled", s.TriggerEnabled),
	)
	return s
}

// passField returns the column of p that dim filters on.
func passField(p *model.PassEvent, dim types.Dimension) int64 {
	switch dim {
	case types.DimPlayer:
		return p.PlayerID
	case types.DimPosition:
		return p.PositionID
	case types.DimTeam:
		return p.TeamID
	case types.DimMatch:
		return p.MatchID
	}
	return 0
}

func aggField(a *model.PlayerAggregate, dim types.Dimension) int64 {
	if dim == types.DimAggPosition {
		return a.PositionID
	}
	return a.PlayerID
}

// explicitConstraints returns the user-picked values of dims.
func explicitConstraints(s *State, dims []types.Dimension) map[types.Dimension]int64 {
	out := make(map[types.Dimension]int64, len(dims))
	for _, d := range dims {
		if sel := s.dims[d]; sel.Explicit && sel.Value != nil {
			out[d] = *sel.Value
		}
	}
	return out
}

// noDimension matches no dropdown.
const noDimension types.Dimension = -1

func (e *Engine) cascadePlayer(s *State, keep types.Dimension) {
	constraints := explicitConstraints(s, types.PlayerDimensions)
	reachable := make(map[types.Dimension]map[int64]struct{}, len(types.PlayerDimensions))
	for _, d := range types.PlayerDimensions {
		reachable[d] = make(map[int64]struct{})
	}

	for i := range e.passes {
		p := &e.passes[i]
		if !matchesAll(constraints, func(d types.Dimension) int64 { return passField(p, d) }) {
			continue
		}
		for _, d := range types.PlayerDimensions {
			reachable[d][passField(p, d)] = struct{}{}
		}
	}

	for _, d := range types.PlayerDimensions {
		if d == keep {
			continue
		}
		settle(s, d, e.full.For(d).Narrow(reachable[d]))
	}
}

func (e *Engine) cascadeAggregate(s *State, keep types.Dimension) {
	constraints := explicitConstraints(s, types.AggregateDimensions)
	positions := make(map[int64]struct{})
	full := e.full.AggPlayer.Options()
	players := make([]model.Option, 0, len(full))

	for i := range e.aggs {
		a := &e.aggs[i]
		if !matchesAll(constraints, func(d types.Dimension) int64 { return aggField(a, d) }) {
			continue
		}
		positions[a.PositionID] = struct{}{}
		if i < len(full) {
			players = append(players, full[i])
		}
	}

	if keep != types.DimAggPosition {
		settle(s, types.DimAggPosition, e.full.Position.Narrow(positions))
	}
	if keep != types.DimAggPlayer {
		settle(s, types.DimAggPlayer, catalog.New(players))
	}
}

func matchesAll(constraints map[types.Dimension]int64, field func(types.Dimension) int64) bool {
	for d, v := range constraints {
		if field(d) != v {
			return false
		}
	}
	return true
}

// settle installs the narrowed options of dim and applies the single-option
// rule: one distinct value is auto-selected, otherwise only an explicit
// selection survives.
func settle(s *State, dim types.Dimension, opts catalog.Catalog) {
	sel := &s.dims[dim]
	sel.Options = opts
	if v, ok := opts.Single(); ok {
		sel.Value = &v
		return
	}
	if !sel.Explicit {
		sel.Value = nil
	}
}

// PassMask marks the passes selected by mode's dropdowns. In the by-player
// tab every selected dropdown constrains the rows. In the by-aggregate tab
// rows must belong to the chosen player, and to the chosen position when one
// is set; with no player chosen nothing is selected.
func (e *Engine) PassMask(s State, mode types.Mode) []bool {
	mask := make([]bool, len(e.passes))
	if mode == types.ModeByAggregate {
		player, ok := s.Value(types.DimAggPlayer)
		if !ok {
			return mask
		}
		position, hasPosition := s.Value(types.DimAggPosition)
		for i := range e.passes {
			p := &e.passes[i]
			mask[i] = p.PlayerID == player && (!hasPosition || p.PositionID == position)
		}
		return mask
	}

	constraints := make(map[types.Dimension]int64, len(types.PlayerDimensions))
	for _, d := range types.PlayerDimensions {
		if v, ok := s.Value(d); ok {
			constraints[d] = v
		}
	}
	for i := range e.passes {
		p := &e.passes[i]
		mask[i] = matchesAll(constraints, func(d types.Dimension) int64 { return passField(p, d) })
	}
	return mask
}

// AggregateMask marks the aggregate rows selected in the by-aggregate tab.
func (e *Engine) AggregateMask(s State) []bool {
	constraints := make(map[types.Dimension]int64, len(types.AggregateDimensions))
	for _, d := range types.AggregateDimensions {
		if v, ok := s.Value(d); ok {
			constraints[d] = v
		}
	}
	mask := make([]bool, len(e.aggs))
	for i := range e.aggs {
		a := &e.aggs[i]
		mask[i] = matchesAll(constraints, func(d types.Dimension) int64 { return aggField(a, d) })
	}
	return mask
}
