// Package render builds the declarative pitch figures drawn by the dashboard.
// Figures serialise to the JSON shape Plotly.js accepts for newPlot.
package render

import "encoding/json"

// Figure is one chart: its traces and layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a scatter trace drawn as markers.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode"`
	Name          string    `json:"name,omitempty"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	Text          []string  `json:"text,omitempty"`
	CustomData    []string  `json:"customdata,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	HoverInfo     string    `json:"hoverinfo,omitempty"`
	Marker        Marker    `json:"marker"`
}

// Marker styles the points of a trace.
type Marker struct {
	Size  float64 `json:"size"`
	Color string  `json:"color,omitempty"`
}

// Line styles a shape outline.
type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Shape is a layout shape. Path shapes carry Path instead of coordinates.
type Shape struct {
	Type  string
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Path  string
	Layer string
	Line  Line
}

// MarshalJSON omits coordinates for path shapes and the path for the rest,
// keeping zero coordinates that plain omitempty would drop.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s.Type == "path" {
		return json.Marshal(struct {
			Type  string `json:"type"`
			Path  string `json:"path"`
			Layer string `json:"layer"`
			Line  Line   `json:"line"`
		}{s.Type, s.Path, s.Layer, s.Line})
	}
	return json.Marshal(struct {
		Type  string  `json:"type"`
		X0    float64 `json:"x0"`
		Y0    float64 `json:"y0"`
		X1    float64 `json:"x1"`
		Y1    float64 `json:"y1"`
		Layer string  `json:"layer"`
		Line  Line    `json:"line"`
	}{s.Type, s.X0, s.Y0, s.X1, s.Y1, s.Layer, s.Line})
}

// Annotation is an arrow from (AX, AY) to (X, Y) in data coordinates.
type Annotation struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	AX         float64 `json:"ax"`
	AY         float64 `json:"ay"`
	XRef       string  `json:"xref"`
	YRef       string  `json:"yref"`
	AXRef      string  `json:"axref"`
	AYRef      string  `json:"ayref"`
	Text       string  `json:"text"`
	ShowArrow  bool    `json:"showarrow"`
	ArrowHead  int     `json:"arrowhead"`
	ArrowWidth float64 `json:"arrowwidth"`
	ArrowColor string  `json:"arrowcolor,omitempty"`
}

// Axis is a cartesian axis. A reversed range flips the axis.
type Axis struct {
	Range       [2]float64 `json:"range"`
	ShowGrid    bool       `json:"showgrid"`
	ZeroLine    bool       `json:"zeroline"`
	ScaleAnchor string     `json:"scaleanchor,omitempty"`
	ScaleRatio  float64    `json:"scaleratio,omitempty"`
}

// Margin is the plot area padding in pixels.
type Margin struct {
	L   int `json:"l"`
	R   int `json:"r"`
	B   int `json:"b"`
	T   int `json:"t"`
	Pad int `json:"pad"`
}

// Title is the chart heading.
type Title struct {
	Text string `json:"text"`
}

// Layout positions everything that is not a trace.
type Layout struct {
	Shapes      []Shape      `json:"shapes"`
	Annotations []Annotation `json:"annotations"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Margin      Margin       `json:"margin"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Title       *Title       `json:"title,omitempty"`
	ShowLegend  bool         `json:"showlegend"`
}

// Markers returns the total number of points over all traces.
func (f Figure) Markers() int {
	n := 0
	for _, t := range f.Data {
		n += len(t.X)
	}
	return n
}
