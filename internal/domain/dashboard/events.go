// Package dashboard turns user interactions into dashboard state through a
// pure reducer.
package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/internal/domain/types"
)

// Event type tags.
const (
	TypeFilterChanged   = "filter_changed"
	TypeTabChanged      = "tab_changed"
	TypeClearRequested  = "clear_requested"
	TypeRenderRequested = "render_requested"
	TypeRangeChanged    = "range_changed"
	TypePointSelected   = "point_selected"
	TypeDetailClosed    = "detail_closed"
)

// Event is one user interaction.
type Event interface {
	Type() string
}

// FilterChanged is a dropdown change. A nil Value clears the dropdown.
type FilterChanged struct {
	Dimension types.Dimension `json:"dimension"`
	Value     *int64          `json:"value"`
}

// TabChanged switches the active filter tab.
type TabChanged struct {
	Mode types.Mode `json:"mode"`
}

// ClearRequested resets both tabs and the plot.
type ClearRequested struct{}

// RenderRequested is the Plot button. A nil Range keeps the current one.
type RenderRequested struct {
	Range *render.Range `json:"range,omitempty"`
}

// RangeChanged is a move of the xT slider.
type RangeChanged struct {
	Range render.Range `json:"range"`
}

// PointSelected is a click on a plotted pass.
type PointSelected struct {
	PassID string `json:"pass_id"`
}

// DetailClosed dismisses the freeze frame modal.
type DetailClosed struct{}

func (FilterChanged) Type() string   { return TypeFilterChanged }
func (TabChanged) Type() string      { return TypeTabChanged }
func (ClearRequested) Type() string  { return TypeClearRequested }
func (RenderRequested) Type() string { return TypeRenderRequested }
func (RangeChanged) Type() string    { return TypeRangeChanged }
func (PointSelected) Type() string   { return TypePointSelected }
func (DetailClosed) Type() string    { return TypeDetailClosed }

type envelope struct {
	Type string `json:"type"`
}

// DecodeEvent parses a {"type": ..., ...} envelope into its event.
func DecodeEvent(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	switch env.Type {
	case TypeFilterChanged:
		var raw struct {
			Dimension *types.Dimension `json:"dimension"`
			Value     *int64           `json:"value"`
		}
		if err := decodeBody(b, env.Type, &raw); err != nil {
			return nil, err
		}
		if raw.Dimension == nil {
			return nil, fmt.Errorf("%w: %s: missing dimension", ErrInvalidEvent, env.Type)
		}
		return FilterChanged{Dimension: *raw.Dimension, Value: raw.Value}, nil
	case TypeTabChanged:
		var raw struct {
			Mode *types.Mode `json:"mode"`
		}
		if err := decodeBody(b, env.Type, &raw); err != nil {
			return nil, err
		}
		if raw.Mode == nil {
			return nil, fmt.Errorf("%w: %s: missing mode", ErrInvalidEvent, env.Type)
		}
		return TabChanged{Mode: *raw.Mode}, nil
	case TypeClearRequested:
		return ClearRequested{}, nil
	case TypeRenderRequested:
		var ev RenderRequested
		if err := decodeBody(b, env.Type, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeRangeChanged:
		var raw struct {
			Range *render.Range `json:"range"`
		}
		if err := decodeBody(b, env.Type, &raw); err != nil {
			return nil, err
		}
		if raw.Range == nil {
			return nil, fmt.Errorf("%w: %s: missing range", ErrInvalidEvent, env.Type)
		}
		return RangeChanged{Range: *raw.Range}, nil
	case TypePointSelected:
		var ev PointSelected
		if err := decodeBody(b, env.Type, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeDetailClosed:
		return DetailClosed{}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
}

func decodeBody(b []byte, typ string, v any) error {
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidEvent, typ, err)
	}
	return nil
}

// EncodeEvent writes ev with its type tag.
func EncodeEvent(ev Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, _ := json.Marshal(ev.Type())
	fields["type"] = tag
	return json.Marshal(fields)
}
