package dashboard

import (
	"fmt"

	"github.com/okian/passmap/internal/domain/filter"
	"github.com/okian/passmap/internal/domain/render"
)

// Dataset is what the reducer draws from.
type Dataset interface {
	render.PassSource
	render.Dataset
}

// Reducer applies events to sessions. It keeps no session state of its own.
type Reducer struct {
	engine *filter.Engine
	ds     Dataset
	rng    render.Range
}

// NewReducer creates a reducer. initial is the slider position of new sessions.
func NewReducer(engine *filter.Engine, ds Dataset, initial render.Range) *Reducer {
	return &Reducer{engine: engine, ds: ds, rng: initial.Normalize()}
}

// Initial returns a fresh session: by-player tab, nothing selected, empty pitch.
func (r *Reducer) Initial() Session {
	return Session{
		Filter: r.engine.Initial(),
		Range:  r.rng,
		Figure: render.EmptyFigure(),
	}
}

// Reduce returns the session after ev. Invalid events leave s untouched and
// return an error wrapping ErrInvalidEvent or ErrUnknownEvent.
func (r *Reducer) Reduce(s Session, ev Event) (Session, error) {
	switch e := ev.(type) {
	case FilterChanged:
		if !e.Dimension.Valid() {
			return s, fmt.Errorf("%w: dimension %d", ErrInvalidEvent, int(e.Dimension))
		}
		if e.Value != nil && !r.engine.Catalogs().For(e.Dimension).Contains(*e.Value) {
			return s, fmt.Errorf("%w: %s has no option %d", ErrInvalidEvent, e.Dimension, *e.Value)
		}
		s.Filter = r.engine.Change(s.Filter, e.Dimension, e.Value)

	case TabChanged:
		if !e.Mode.Valid() {
			return s, fmt.Errorf("%w: mode %d", ErrInvalidEvent, int(e.Mode))
		}
		s.Mode = e.Mode

	case ClearRequested:
		s.Filter = r.engine.Clear(s.Filter)
		s.Figure = render.EmptyFigure()
		s.Rendered = false
		s.Detail = Detail{}

	case RenderRequested:
		if e.Range != nil {
			if err := e.Range.Validate(); err != nil {
				return s, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
			}
			s.Range = e.Range.Normalize()
		}
		r.plot(&s)

	case RangeChanged:
		if err := e.Range.Validate(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		s.Range = e.Range.Normalize()
		r.plot(&s)

	case PointSelected:
		if e.PassID == "" {
			return s, fmt.Errorf("%w: empty pass id", ErrInvalidEvent)
		}
		s.Detail = r.detail(e.PassID)

	case DetailClosed:
		s.Detail = Detail{}

	case nil:
		return s, fmt.Errorf("%w: nil", ErrInvalidEvent)

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	s.Seq++
	return s, nil
}

// plot redraws the figure from the active tab. Without a selected player in
// either tab only the empty pitch is shown.
func (r *Reducer) plot(s *Session) {
	if !s.Filter.PlayerSelected() {
		s.Figure = render.EmptyFigure()
		s.Rendered = false
		return
	}
	mask := r.engine.PassMask(s.Filter, s.Mode)
	s.Figure = render.Plot(r.ds, mask, s.Range)
	s.Rendered = true
}

func (r *Reducer) detail(passID string) Detail {
	view, err := render.Detail(r.ds, passID)
	if err != nil {
		return Detail{PassID: passID, Error: err.Error(), Reason: FailureReason(err)}
	}
	return Detail{Open: true, PassID: passID, Title: view.Title, Figure: &view.Figure}
}
