package site

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/okian/passmap/internal/domain/render"
)

// PlotlyURL is the Plotly.js bundle the page loads.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Bootstrap is handed to app.js as JSON in the page.
type Bootstrap struct {
	Title   string        `json:"title"`
	APIBase string        `json:"api_base"`
	WSPath  string        `json:"ws_path"`
	Slider  render.Slider `json:"slider"`
}

// DefaultBootstrap points the page at this server's routes.
func DefaultBootstrap(slider render.Slider) Bootstrap {
	return Bootstrap{Title: "Pass Map", APIBase: "/api", WSPath: "/ws", Slider: slider}
}

// Shell renders the page: head, bootstrap JSON, controls and the script.
func Shell(b Bootstrap) templ.Component {
	return templ.Join(
		head(b.Title),
		templ.JSONScript("bootstrap", b),
		templ.Raw(controlsTop),
		RangeInputs(b.Slider),
		templ.Raw(controlsBottom),
		templ.Raw(`<script src="/static/app.js"></script></body></html>`),
	)
}

func head(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`+
			templ.EscapeString(title)+
			`</title><link rel="stylesheet" href="/static/style.css">`+
			`<script src="`+PlotlyURL+`"></script></head><body>`)
		return err
	})
}

// RangeInputs renders the two handles of the xT range, bounded by the slider
// and starting at its value.
func RangeInputs(sl render.Slider) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="range">`+
			`<label>xT from `+numberInput("range-lo", sl, sl.Value.Lo)+`</label> `+
			`<label>to `+numberInput("range-hi", sl, sl.Value.Hi)+`</label></div>`)
		return err
	})
}

func numberInput(id string, sl render.Slider, value float64) string {
	return `<input type="number" required id="` + templ.EscapeString(id) +
		`" min="` + formatFloat(sl.Min) + `" max="` + formatFloat(sl.Max) +
		`" step="` + formatFloat(sl.Step) + `" value="` + formatFloat(value) + `">`
}

func formatFloat(v float64) string {
	return templ.EscapeString(strconv.FormatFloat(v, 'f', -1, 64))
}

const controlsTop = `
<header><h1 id="title"></h1></header>
<main>
  <section class="controls">
    <nav class="tabs">
      <button type="button" data-mode="by_player" class="active">By player</button>
      <button type="button" data-mode="by_aggregate">By aggregate</button>
    </nav>
    <div class="tab" id="tab-by_player">
      <label>Team <select data-dim="team"></select></label>
      <label>Position <select data-dim="position"></select></label>
      <label>Match <select data-dim="match"></select></label>
      <label>Player <input type="search" data-search="player" placeholder="search"> <select data-dim="player"></select></label>
    </div>
    <div class="tab hidden" id="tab-by_aggregate">
      <label>Position <select data-dim="agg_position"></select></label>
      <label>Player <select data-dim="agg_player"></select></label>
    </div>
`

const controlsBottom = `
    <div class="actions">
      <button type="button" id="plot" disabled>Plot</button>
      <button type="button" id="clear">Clear</button>
      <a id="export-png" href="#">PNG</a>
      <a id="export-svg" href="#">SVG</a>
    </div>
    <p id="status" role="status"></p>
  </section>
  <section id="pitch"></section>
</main>
<dialog id="detail">
  <h2 id="detail-title"></h2>
  <div id="detail-plot"></div>
  <button type="button" id="detail-close">Close</button>
</dialog>
`
