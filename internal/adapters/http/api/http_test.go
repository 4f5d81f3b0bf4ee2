package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/passmap/internal/adapters/http/api"
	"github.com/okian/passmap/internal/adapters/repository"
	"github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/aggregate"
	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/internal/domain/filter"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// testDeps wires the real domain over a tiny in-memory dataset.
type testDeps struct {
	ds      *repository.Dataset
	aggs    []model.PlayerAggregate
	set     catalog.Set
	reducer *dashboard.Reducer
	store   session.Store
	ready   bool
}

func newTestDeps() *testDeps {
	matches := []model.Match{{ID: 100, Name: "Arsenal - Chelsea", HomeTeamID: 1, HomeTeamName: "Arsenal", AwayTeamID: 2, AwayTeamName: "Chelsea"}}
	passes := []model.PassEvent{
		{ID: "a", PlayerID: 10, PlayerName: "Bukayo Saka", PositionID: 17, PositionName: "Right Wing", TeamID: 1, MatchID: 100, Timestamp: "00:01:02", XT: 0.1,
			Location: model.Point{X: 30, Y: 40}, EndLocation: model.Point{X: 50, Y: 20}, HasEnd: true,
			FreezeFrameRaw: "[{'teammate': False, 'actor': False, 'location': [60.0, 35.0]}, {'teammate': True, 'actor': True, 'location': [30.0, 40.0]}, {'teammate': True, 'actor': False, 'location': [45.0, 22.0]}]"},
		{ID: "b", PlayerID: 10, PlayerName: "Bukayo Saka", PositionID: 17, PositionName: "Right Wing", TeamID: 1, MatchID: 100, XT: 0.2,
			Location: model.Point{X: 40, Y: 40}},
		{ID: "c", PlayerID: 20, PlayerName: "Cole Palmer", PositionID: 19, PositionName: "Attacking Midfield", TeamID: 2, MatchID: 100, XT: -0.05,
			Location: model.Point{X: 60, Y: 40}, EndLocation: model.Point{X: 70, Y: 20}, HasEnd: true, FreezeFrameRaw: "not a frame"},
	}
	ds, err := repository.FromRecords(passes, matches)
	if err != nil {
		panic(err)
	}
	aggs := aggregate.Build(ds.Passes())
	set := catalog.NewSet(ds.Passes(), ds.Matches(), aggs)
	store, err := session.NewLRUStore(session.WithMaxSessions(8))
	if err != nil {
		panic(err)
	}
	return &testDeps{
		ds:      ds,
		aggs:    aggs,
		set:     set,
		reducer: dashboard.NewReducer(filter.New(ds, aggs, set), ds, render.DefaultRange),
		store:   store,
		ready:   true,
	}
}

func (d *testDeps) Catalogs() catalog.Set               { return d.set }
func (d *testDeps) Aggregates() []model.PlayerAggregate { return d.aggs }
func (d *testDeps) Slider() render.Slider               { return render.DefaultSlider() }
func (d *testDeps) Ready() bool                         { return d.ready }

func (d *testDeps) CreateSession(ctx context.Context) (string, dashboard.Session, error) {
	s := d.reducer.Initial()
	id, err := d.store.Create(ctx, s)
	return id, s, err
}

func (d *testDeps) Session(ctx context.Context, id string) (dashboard.Session, error) {
	return d.store.Get(ctx, id)
}

func (d *testDeps) ApplyEvent(ctx context.Context, id string, ev dashboard.Event) (dashboard.Session, error) {
	return d.store.Apply(ctx, id, func(s dashboard.Session) (dashboard.Session, error) {
		return d.reducer.Reduce(s, ev)
	})
}

func (d *testDeps) DeleteSession(ctx context.Context, id string) bool { return d.store.Delete(ctx, id) }

func (d *testDeps) PassDetail(_ context.Context, id string) (render.DetailView, error) {
	return render.Detail(d.ds, id)
}

type statsStub map[string]interface{}

func (s statsStub) GetStats() map[string]interface{} { return s }

func newMux(deps *testDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, statsStub{"passes": 3}).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

type view struct {
	ID       string `json:"id"`
	Seq      uint64 `json:"seq"`
	Mode     string `json:"mode"`
	Rendered bool   `json:"rendered"`
	Filter   struct {
		ByPlayer map[string]struct {
			Value    *int64         `json:"value"`
			Explicit bool           `json:"explicit"`
			Options  []model.Option `json:"options"`
		} `json:"by_player"`
		TriggerEnabled bool `json:"trigger_enabled"`
	} `json:"filter"`
	Figure struct {
		Data []struct {
			X []float64 `json:"x"`
		} `json:"data"`
	} `json:"figure"`
	Detail struct {
		Open   bool   `json:"open"`
		Title  string `json:"title"`
		Reason string `json:"reason"`
	} `json:"detail"`
}

func decodeView(w *httptest.ResponseRecorder) view {
	var v view
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func errorCode(w *httptest.ResponseRecorder) string {
	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	So(json.Unmarshal(w.Body.Bytes(), &e), ShouldBeNil)
	So(e.Message, ShouldNotBeEmpty)
	return e.Code
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the registered mux", t, func() {
		deps := newTestDeps()
		mux := newMux(deps)

		Convey("Then /healthz exposes the metrics registry", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "passmap_")
		})

		Convey("Then /stats returns the provider's map", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"passes":3`)
		})

		Convey("Then /readyz follows readiness", func() {
			So(do(mux, http.MethodGet, "/readyz", "").Code, ShouldEqual, http.StatusOK)
			deps.ready = false
			So(do(mux, http.MethodGet, "/readyz", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then unknown api paths return JSON 404s", func() {
			w := do(mux, http.MethodGet, "/api/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "not_found")
		})
	})
}

func TestCatalogEndpoints(t *testing.T) {
	Convey("Given the registered mux", t, func() {
		mux := newMux(newTestDeps())

		Convey("When catalogs are requested", func() {
			w := do(mux, http.MethodGet, "/api/catalogs", "")

			Convey("Then all five catalogs and the slider are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Catalogs map[string][]model.Option `json:"catalogs"`
					Slider   render.Slider             `json:"slider"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Catalogs, ShouldHaveLength, 5)
				So(resp.Catalogs["team"], ShouldHaveLength, 2)
				So(resp.Slider, ShouldResemble, render.DefaultSlider())
			})
		})

		Convey("When a catalog is searched", func() {
			w := do(mux, http.MethodGet, "/api/catalogs/player/search?q=palm", "")

			Convey("Then matching options come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Options []model.Option `json:"options"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Options, ShouldResemble, []model.Option{{Label: "Cole Palmer", Value: 20}})
			})
		})

		Convey("When the dimension or limit is bad", func() {
			So(do(mux, http.MethodGet, "/api/catalogs/referee/search?q=x", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/catalogs/player/search?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When aggregates are requested with a limit", func() {
			w := do(mux, http.MethodGet, "/api/aggregates?limit=1", "")

			Convey("Then the best row comes first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []struct {
					PlayerID int64   `json:"player_id"`
					Passes   int     `json:"passes"`
					SumXT    float64 `json:"sum_xt"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].PlayerID, ShouldEqual, int64(10))
				So(rows[0].Passes, ShouldEqual, 2)
				So(rows[0].SumXT, ShouldAlmostEqual, 0.3, 1e-9)
			})
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given a created session", t, func() {
		mux := newMux(newTestDeps())
		created := do(mux, http.MethodPost, "/api/sessions", "")
		So(created.Code, ShouldEqual, http.StatusCreated)
		v := decodeView(created)
		So(v.ID, ShouldNotBeEmpty)
		So(created.Header().Get("Location"), ShouldEqual, "/api/sessions/"+v.ID)
		base := "/api/sessions/" + v.ID

		Convey("Then it starts idle on the by-player tab", func() {
			So(v.Mode, ShouldEqual, "by_player")
			So(v.Filter.TriggerEnabled, ShouldBeFalse)
			So(v.Rendered, ShouldBeFalse)
		})

		Convey("When team 2 is selected", func() {
			w := do(mux, http.MethodPost, base+"/events", `{"type":"filter_changed","dimension":"team","value":2}`)

			Convey("Then the only player of that team is auto-selected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decodeView(w)
				So(got.Seq, ShouldEqual, uint64(1))
				So(*got.Filter.ByPlayer["player"].Value, ShouldEqual, int64(20))
				So(got.Filter.ByPlayer["player"].Explicit, ShouldBeFalse)
				So(got.Filter.TriggerEnabled, ShouldBeTrue)
			})

			Convey("And a render draws that player's passes", func() {
				w := do(mux, http.MethodPost, base+"/events", `{"type":"render_requested","range":[-0.25,0.25]}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decodeView(w)
				So(got.Rendered, ShouldBeTrue)
				So(got.Figure.Data, ShouldHaveLength, 1)
				So(got.Figure.Data[0].X, ShouldResemble, []float64{60})

				Convey("And GET returns the same view", func() {
					again := decodeView(do(mux, http.MethodGet, base, ""))
					So(again.Seq, ShouldEqual, got.Seq)
				})
			})
		})

		Convey("When a pass is selected", func() {
			w := do(mux, http.MethodPost, base+"/events", `{"type":"point_selected","pass_id":"a"}`)

			Convey("Then the detail modal opens", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decodeView(w)
				So(got.Detail.Open, ShouldBeTrue)
				So(got.Detail.Title, ShouldContainSubstring, "Bukayo Saka")
			})
		})

		Convey("When a pass with a broken freeze frame is selected", func() {
			got := decodeView(do(mux, http.MethodPost, base+"/events", `{"type":"point_selected","pass_id":"c"}`))

			Convey("Then the session survives with a closed modal and a reason", func() {
				So(got.Detail.Open, ShouldBeFalse)
				So(got.Detail.Reason, ShouldEqual, dashboard.ReasonMalformedFrame)
			})
		})

		Convey("When events are invalid", func() {
			unknown := do(mux, http.MethodPost, base+"/events", `{"type":"teleport"}`)
			So(unknown.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(errorCode(unknown), ShouldEqual, "unknown_event")

			bad := do(mux, http.MethodPost, base+"/events", `{"type":"filter_changed","dimension":"team","value":99}`)
			So(bad.Code, ShouldEqual, http.StatusBadRequest)

			garbage := do(mux, http.MethodPost, base+"/events", `{`)
			So(garbage.Code, ShouldEqual, http.StatusBadRequest)

			Convey("Then the session is unchanged", func() {
				So(decodeView(do(mux, http.MethodGet, base, "")).Seq, ShouldEqual, uint64(0))
			})
		})

		Convey("When the plot is exported", func() {
			png := do(mux, http.MethodGet, base+"/plot.png", "")
			So(png.Code, ShouldEqual, http.StatusOK)
			So(png.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(bytes.HasPrefix(png.Body.Bytes(), []byte("\x89PNG")), ShouldBeTrue)

			svg := do(mux, http.MethodGet, base+"/plot.svg", "")
			So(svg.Code, ShouldEqual, http.StatusOK)
			So(svg.Body.String(), ShouldContainSubstring, "<svg")

			So(do(mux, http.MethodGet, base+"/plot.gif", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When it is deleted", func() {
			So(do(mux, http.MethodDelete, base, "").Code, ShouldEqual, http.StatusNoContent)

			Convey("Then it is gone", func() {
				w := do(mux, http.MethodGet, base, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorCode(w), ShouldEqual, "session_not_found")
				So(do(mux, http.MethodDelete, base, "").Code, ShouldEqual, http.StatusNotFound)
				So(do(mux, http.MethodPost, base+"/events", `{"type":"detail_closed"}`).Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestPassDetailEndpoint(t *testing.T) {
	Convey("Given the registered mux", t, func() {
		mux := newMux(newTestDeps())

		Convey("Then a pass with a freeze frame is drawn", func() {
			w := do(mux, http.MethodGet, "/api/passes/a/detail", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var dv render.DetailView
			So(json.Unmarshal(w.Body.Bytes(), &dv), ShouldBeNil)
			So(dv.Opponents, ShouldEqual, 1)
			So(dv.Teammates, ShouldEqual, 1)
		})

		Convey("Then failures map to status codes", func() {
			So(do(mux, http.MethodGet, "/api/passes/zzz/detail", "").Code, ShouldEqual, http.StatusNotFound)
			missing := do(mux, http.MethodGet, "/api/passes/b/detail", "")
			So(missing.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(errorCode(missing), ShouldEqual, dashboard.ReasonNoFreezeFrame)
			So(errorCode(do(mux, http.MethodGet, "/api/passes/c/detail", "")), ShouldEqual, dashboard.ReasonMalformedFrame)
		})
	})
}
