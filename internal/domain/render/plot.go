package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/passmap/internal/domain/model"
)

// Default xT slider settings.
const (
	DefaultRangeLo   = -0.25
	DefaultRangeHi   = 0.25
	DefaultRangeStep = 0.05
)

// Range is an inclusive xT interval.
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// DefaultRange is the slider's initial position.
var DefaultRange = Range{Lo: DefaultRangeLo, Hi: DefaultRangeHi}

// Slider describes the xT range control: its bounds, step and start value.
type Slider struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value Range   `json:"value"`
}

// DefaultSlider spans the default range in default steps.
func DefaultSlider() Slider {
	return Slider{Min: DefaultRangeLo, Max: DefaultRangeHi, Step: DefaultRangeStep, Value: DefaultRange}
}

// Normalize swaps reversed bounds.
func (r Range) Normalize() Range {
	if r.Lo > r.Hi {
		r.Lo, r.Hi = r.Hi, r.Lo
	}
	return r
}

// Contains reports lo <= v <= hi.
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Validate rejects non-finite bounds.
func (r Range) Validate() error {
	for _, v := range [...]float64{r.Lo, r.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidRange, r)
		}
	}
	return nil
}

// UnmarshalJSON accepts {"lo":..,"hi":..} and the slider's [lo, hi] form.
func (r *Range) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("[")) {
		var pair []float64
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("%w: want 2 bounds, got %d", ErrInvalidRange, len(pair))
		}
		r.Lo, r.Hi = pair[0], pair[1]
		return nil
	}
	type plain Range
	return json.Unmarshal(b, (*plain)(r))
}

// PassSource is the read side of the dataset the plot draws from.
type PassSource interface {
	Passes() []model.PassEvent
}

// Plot draws one marker and one arrow for every pass selected by mask whose
// xT lies in rng. Passes without a destination are skipped. mask is indexed
// like src.Passes(); missing entries count as unselected.
func Plot(src PassSource, mask []bool, rng Range) Figure {
	rng = rng.Normalize()
	fig := EmptyFigure()
	tr := Trace{
		Type:          traceScatter,
		Mode:          modeMarkers,
		X:             []float64{},
		Y:             []float64{},
		Text:          []string{},
		CustomData:    []string{},
		HoverTemplate: hoverFormat,
		Marker:        Marker{Size: MarkerSize},
	}

	passes := src.Passes()
	for i := range passes {
		p := &passes[i]
		if i >= len(mask) || !mask[i] || !p.HasEnd || !rng.Contains(p.XT) {
			continue
		}
		tr.X = append(tr.X, p.Location.X)
		tr.Y = append(tr.Y, p.Location.Y)
		tr.Text = append(tr.Text, p.HoverText)
		tr.CustomData = append(tr.CustomData, p.ID)
		fig.Layout.Annotations = append(fig.Layout.Annotations, arrow(p.Location, p.EndLocation))
	}
	fig.Data = append(fig.Data, tr)
	return fig
}
