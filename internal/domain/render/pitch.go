package render

import "github.com/okian/passmap/internal/domain/model"

// Figure geometry.
const (
	FigureWidth  = 900
	FigureHeight = 600
	MarkerSize   = 10
	ArrowHead    = 3
	ArrowWidth   = 1.5
	axisPadding  = 5.0
	lineColor    = "#444444"
	lineWidth    = 1
	hoverFormat  = "%{text}<extra></extra>"
	layerBelow   = "below"
	shapeRect    = "rect"
	shapeCircle  = "circle"
	shapeLine    = "line"
	shapePath    = "path"
	traceScatter = "scatter"
	modeMarkers  = "markers"
)

func shape(kind string, x0, y0, x1, y1 float64) Shape {
	return Shape{
		Type: kind, X0: x0, Y0: y0, X1: x1, Y1: y1,
		Layer: layerBelow,
		Line:  Line{Color: lineColor, Width: lineWidth},
	}
}

func path(p string) Shape {
	return Shape{Type: shapePath, Path: p, Layer: layerBelow, Line: Line{Color: lineColor, Width: lineWidth}}
}

// PitchShapes returns the fixed pitch background in StatsBomb coordinates.
func PitchShapes() []Shape {
	const (
		l = model.PitchLength
		w = model.PitchWidth
	)
	return []Shape{
		shape(shapeRect, 0, 0, l, w),
		shape(shapeRect, 0, 18, 18, 62),
		shape(shapeRect, l-18, 18, l, 62),
		shape(shapeRect, 0, 30, 6, 50),
		shape(shapeRect, l-6, 30, l, 50),
		shape(shapeRect, -2, 35, 0, 44),
		shape(shapeRect, l, 35, l+2, 44),
		shape(shapeCircle, 50, 30, 70, 50),
		shape(shapeLine, l/2, 0, l/2, w),
		path("M 18,32 C 25,35 25,45 18,48"),
		path("M 102,32 C 95,35 95,45 102,48"),
	}
}

func baseLayout() Layout {
	return Layout{
		Shapes:      PitchShapes(),
		Annotations: []Annotation{},
		XAxis: Axis{
			Range: [2]float64{-axisPadding, model.PitchLength + axisPadding},
		},
		YAxis: Axis{
			Range:       [2]float64{model.PitchWidth + axisPadding, -axisPadding},
			ScaleAnchor: "x",
			ScaleRatio:  1,
		},
		Margin: Margin{L: 0, R: 0, B: 3, T: 50, Pad: 10},
		Width:  FigureWidth,
		Height: FigureHeight,
	}
}

// EmptyFigure is the pitch with nothing on it.
func EmptyFigure() Figure {
	return Figure{Data: []Trace{}, Layout: baseLayout()}
}

func arrow(from, to model.Point) Annotation {
	return Annotation{
		X: to.X, Y: to.Y,
		AX: from.X, AY: from.Y,
		XRef: "x", YRef: "y", AXRef: "x", AYRef: "y",
		ShowArrow:  true,
		ArrowHead:  ArrowHead,
		ArrowWidth: ArrowWidth,
	}
}
