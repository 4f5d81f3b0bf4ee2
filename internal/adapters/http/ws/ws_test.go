package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/passmap/internal/adapters/http/ws"
	"github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/internal/domain/types"
	"github.com/okian/passmap/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// countingDeps bumps Seq per event and records the last event.
type countingDeps struct {
	mu       sync.Mutex
	sessions map[string]dashboard.Session
	last     dashboard.Event
}

func (d *countingDeps) Session(_ context.Context, id string) (dashboard.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[id]
	if !ok {
		return dashboard.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (d *countingDeps) ApplyEvent(_ context.Context, id string, ev dashboard.Event) (dashboard.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[id]
	if !ok {
		return dashboard.Session{}, session.ErrNotFound
	}
	if tc, ok := ev.(dashboard.TabChanged); ok {
		s.Mode = tc.Mode
	}
	s.Seq++
	d.sessions[id] = s
	d.last = ev
	return s, nil
}

func (d *countingDeps) drop(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, id)
}

func dial(srv *httptest.Server, id string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + id
	return websocket.DefaultDialer.Dial(url, nil)
}

func readFrame(conn *websocket.Conn) ws.Frame {
	var f ws.Frame
	So(conn.SetReadDeadline(time.Now().Add(5*time.Second)), ShouldBeNil)
	So(conn.ReadJSON(&f), ShouldBeNil)
	return f
}

func TestChannel(t *testing.T) {
	Convey("Given a websocket server with one session", t, func() {
		deps := &countingDeps{sessions: map[string]dashboard.Session{"s1": {}}}
		mux := http.NewServeMux()
		ws.NewHandler(deps, ws.WithMaxMessageBytes(512)).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When a client connects to an unknown session", func() {
			_, resp, err := dial(srv, "nope")

			Convey("Then the upgrade is refused with 404", func() {
				So(err, ShouldNotBeNil)
				So(resp, ShouldNotBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a client connects", func() {
			conn, _, err := dial(srv, "s1")
			So(err, ShouldBeNil)
			defer conn.Close()

			Convey("Then the current session is sent first", func() {
				f := readFrame(conn)
				So(f.Type, ShouldEqual, ws.FrameSession)
				So(f.ID, ShouldEqual, "s1")
				So(f.Session.Seq, ShouldEqual, uint64(0))
			})

			Convey("Then each event frame is answered with the new session", func() {
				readFrame(conn)
				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"tab_changed","mode":"by_aggregate"}`)), ShouldBeNil)
				f := readFrame(conn)
				So(f.Type, ShouldEqual, ws.FrameSession)
				So(f.Session.Seq, ShouldEqual, uint64(1))
				So(f.Session.Mode, ShouldEqual, types.ModeByAggregate)
			})

			Convey("Then bad frames yield error frames and keep the channel open", func() {
				readFrame(conn)
				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"warp"}`)), ShouldBeNil)
				f := readFrame(conn)
				So(f.Type, ShouldEqual, ws.FrameError)
				So(f.Error.Code, ShouldEqual, "unknown_event")

				So(conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2}), ShouldBeNil)
				So(readFrame(conn).Error.Code, ShouldEqual, "bad_frame")

				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"clear_requested"}`)), ShouldBeNil)
				So(readFrame(conn).Type, ShouldEqual, ws.FrameSession)
			})

			Convey("Then a session that disappears ends the channel", func() {
				readFrame(conn)
				deps.drop("s1")
				So(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"detail_closed"}`)), ShouldBeNil)
				f := readFrame(conn)
				So(f.Error.Code, ShouldEqual, "session_not_found")

				So(conn.SetReadDeadline(time.Now().Add(5*time.Second)), ShouldBeNil)
				_, _, err := conn.ReadMessage()
				So(err, ShouldNotBeNil)
			})

			Convey("Then an oversized frame closes the channel", func() {
				readFrame(conn)
				big := `{"type":"point_selected","pass_id":"` + strings.Repeat("x", 1024) + `"}`
				So(conn.WriteMessage(websocket.TextMessage, []byte(big)), ShouldBeNil)

				So(conn.SetReadDeadline(time.Now().Add(5*time.Second)), ShouldBeNil)
				_, _, err := conn.ReadMessage()
				So(err, ShouldNotBeNil)
			})
		})
	})
}
