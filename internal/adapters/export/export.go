// Package export draws dashboard figures as PNG or SVG images.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/passmap/internal/domain/render"
)

// Supported formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	circleSegments = 64
	curveSegments  = 24
	headLength     = 1.6
	headAngle      = math.Pi / 7
	dotWidth       = 4
)

var (
	pitchColor  = drawing.ColorFromHex("444444")
	arrowColor  = drawing.ColorFromHex("555555")
	namedColors = map[string]drawing.Color{
		"red":   chart.ColorRed,
		"green": chart.ColorGreen,
		"blue":  chart.ColorBlue,
		"black": chart.ColorBlack,
	}
)

// ContentType returns the MIME type of format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatPNG:
		return "image/png", nil
	case FormatSVG:
		return "image/svg+xml", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Render draws fig in format ("png" or "svg") to w.
func Render(fig render.Figure, format string, w io.Writer) error {
	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	ch := Chart(fig)
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// Chart converts fig into a go-chart chart: pitch lines and arrows become
// line series, traces become dot series.
func Chart(fig render.Figure) chart.Chart {
	l := fig.Layout
	series := make([]chart.Series, 0, len(l.Shapes)+len(l.Annotations)*3+len(fig.Data))

	for _, s := range l.Shapes {
		for _, line := range shapeLines(s) {
			series = append(series, lineSeries(line, pitchColor, 1))
		}
	}
	for _, a := range l.Annotations {
		for _, line := range arrowLines(a) {
			series = append(series, lineSeries(line, arrowColor, a.ArrowWidth))
		}
	}
	for i, t := range fig.Data {
		if len(t.X) == 0 || len(t.X) != len(t.Y) {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    traceName(t, i),
			XValues: append([]float64(nil), t.X...),
			YValues: append([]float64(nil), t.Y...),
			Style: chart.Style{
				StrokeWidth: 0,
				DotWidth:    dotWidth,
				DotColor:    traceColor(t),
			},
		})
	}

	ch := chart.Chart{
		Width:  l.Width,
		Height: l.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: l.Margin.T, Left: 16 + l.Margin.L, Right: 16 + l.Margin.R, Bottom: 16 + l.Margin.B},
		},
		XAxis: chart.XAxis{
			Range: axisRange(l.XAxis),
		},
		YAxis: chart.YAxis{
			Range: axisRange(l.YAxis),
		},
		Series: series,
	}
	if l.Title != nil {
		ch.Title = l.Title.Text
	}
	return ch
}

// axisRange maps a Plotly range to go-chart; a reversed range descends.
func axisRange(a render.Axis) *chart.ContinuousRange {
	lo, hi := a.Range[0], a.Range[1]
	if lo > hi {
		return &chart.ContinuousRange{Min: hi, Max: lo, Descending: true}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

type polyline struct {
	xs []float64
	ys []float64
}

func (p *polyline) add(x, y float64) {
	p.xs = append(p.xs, x)
	p.ys = append(p.ys, y)
}

func lineSeries(p polyline, color drawing.Color, width float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: p.xs,
		YValues: p.ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: width,
		},
	}
}

// shapeLines approximates a layout shape with polylines.
func shapeLines(s render.Shape) []polyline {
	switch s.Type {
	case "rect":
		var p polyline
		p.add(s.X0, s.Y0)
		p.add(s.X1, s.Y0)
		p.add(s.X1, s.Y1)
		p.add(s.X0, s.Y1)
		p.add(s.X0, s.Y0)
		return []polyline{p}
	case "line":
		var p polyline
		p.add(s.X0, s.Y0)
		p.add(s.X1, s.Y1)
		return []polyline{p}
	case "circle":
		cx, cy := (s.X0+s.X1)/2, (s.Y0+s.Y1)/2
		rx, ry := math.Abs(s.X1-s.X0)/2, math.Abs(s.Y1-s.Y0)/2
		var p polyline
		for i := 0; i <= circleSegments; i++ {
			a := 2 * math.Pi * float64(i) / circleSegments
			p.add(cx+rx*math.Cos(a), cy+ry*math.Sin(a))
		}
		return []polyline{p}
	case "path":
		if p, ok := cubicPath(s.Path); ok {
			return []polyline{p}
		}
	}
	return nil
}

// cubicPath samples an SVG path of the form "M x,y C x1,y1 x2,y2 x,y".
func cubicPath(d string) (polyline, bool) {
	fields := strings.Fields(strings.NewReplacer("M", " ", "C", " ").Replace(d))
	if len(fields) != 4 {
		return polyline{}, false
	}
	var pts [4][2]float64
	for i, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return polyline{}, false
		}
		x, errX := strconv.ParseFloat(xy[0], 64)
		y, errY := strconv.ParseFloat(xy[1], 64)
		if errX != nil || errY != nil {
			return polyline{}, false
		}
		pts[i] = [2]float64{x, y}
	}

	var p polyline
	for i := 0; i <= curveSegments; i++ {
		t := float64(i) / curveSegments
		u := 1 - t
		b0, b1, b2, b3 := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
		p.add(
			b0*pts[0][0]+b1*pts[1][0]+b2*pts[2][0]+b3*pts[3][0],
			b0*pts[0][1]+b1*pts[1][1]+b2*pts[2][1]+b3*pts[3][1],
		)
	}
	return p, true
}

// arrowLines draws the shaft from (AX, AY) to (X, Y) and a two-stroke head.
func arrowLines(a render.Annotation) []polyline {
	var shaft polyline
	shaft.add(a.AX, a.AY)
	shaft.add(a.X, a.Y)

	dx, dy := a.X-a.AX, a.Y-a.AY
	if dx == 0 && dy == 0 {
		return []polyline{shaft}
	}
	theta := math.Atan2(dy, dx)
	var head polyline
	head.add(a.X-headLength*math.Cos(theta-headAngle), a.Y-headLength*math.Sin(theta-headAngle))
	head.add(a.X, a.Y)
	head.add(a.X-headLength*math.Cos(theta+headAngle), a.Y-headLength*math.Sin(theta+headAngle))
	return []polyline{shaft, head}
}

func traceColor(t render.Trace) drawing.Color {
	if c, ok := namedColors[strings.ToLower(t.Marker.Color)]; ok {
		return c
	}
	if strings.HasPrefix(t.Marker.Color, "#") {
		return drawing.ColorFromHex(strings.TrimPrefix(t.Marker.Color, "#"))
	}
	return chart.ColorBlue
}

func traceName(t render.Trace, i int) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("trace %d", i)
}
