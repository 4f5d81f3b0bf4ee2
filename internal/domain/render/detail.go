package render

import (
	"fmt"

	"github.com/okian/passmap/internal/domain/model"
)

// Freeze frame colours.
const (
	OpponentColor = "red"
	TeammateColor = "green"
)

// Dataset is the lookup side needed to draw one pass in detail.
type Dataset interface {
	PassByID(id string) (model.PassEvent, bool)
	MatchByID(id int64) (model.Match, bool)
}

// DetailView is the content of the freeze frame modal.
type DetailView struct {
	PassID    string `json:"pass_id"`
	Title     string `json:"title"`
	Figure    Figure `json:"figure"`
	Teammates int    `json:"teammates"`
	Opponents int    `json:"opponents"`
}

// DetailTitle formats the modal heading.
func DetailTitle(p model.PassEvent) string {
	return fmt.Sprintf("%s in %s at %s", p.PlayerName, p.MatchName, p.Timestamp)
}

// Detail draws the pass passID with every tracked player of its freeze frame,
// teammates and opponents in separate traces named after their teams.
func Detail(ds Dataset, passID string) (DetailView, error) {
	p, ok := ds.PassByID(passID)
	if !ok {
		return DetailView{}, fmt.Errorf("%w: %s", ErrPassNotFound, passID)
	}
	entries, err := model.ParseFreezeFrame(p.FreezeFrameRaw)
	if err != nil {
		return DetailView{}, fmt.Errorf("pass %s: %w", passID, err)
	}

	own, opponent := "", ""
	if m, ok := ds.MatchByID(p.MatchID); ok {
		own, opponent, _ = m.Sides(p.TeamID)
	}
	teammates, opponents := model.SplitFreezeFrame(entries)

	fig := EmptyFigure()
	fig.Layout.ShowLegend = true
	fig.Data = []Trace{
		{
			Type:          traceScatter,
			Mode:          modeMarkers,
			Name:          p.PlayerName,
			X:             []float64{p.Location.X},
			Y:             []float64{p.Location.Y},
			Text:          []string{p.HoverText},
			CustomData:    []string{p.ID},
			HoverTemplate: hoverFormat,
			Marker:        Marker{Size: MarkerSize},
		},
		pointsTrace(opponent, opponents, OpponentColor),
		pointsTrace(own, teammates, TeammateColor),
	}
	if p.HasEnd {
		fig.Layout.Annotations = append(fig.Layout.Annotations, arrow(p.Location, p.EndLocation))
	}

	return DetailView{
		PassID:    p.ID,
		Title:     DetailTitle(p),
		Figure:    fig,
		Teammates: len(teammates),
		Opponents: len(opponents),
	}, nil
}

func pointsTrace(name string, pts []model.Point, color string) Trace {
	tr := Trace{
		Type:   traceScatter,
		Mode:   modeMarkers,
		Name:   name,
		X:      make([]float64, len(pts)),
		Y:      make([]float64, len(pts)),
		Marker: Marker{Size: MarkerSize, Color: color},
	}
	for i, pt := range pts {
		tr.X[i], tr.Y[i] = pt.X, pt.Y
	}
	return tr
}
