// Package ws serves the dashboard interaction channel over websockets. Each
// inbound text frame is one tagged event; each outbound frame is the session
// it produced or an error.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/pkg/logger"
	"github.com/okian/passmap/pkg/metrics"
)

// Connection defaults.
const (
	DefaultMaxMessageBytes = 64 << 10
	DefaultPongWait        = 60 * time.Second
	writeWait              = 10 * time.Second
)

// Frame types.
const (
	FrameSession = "session"
	FrameError   = "error"
)

// Dependencies is the session side the channel drives.
type Dependencies interface {
	Session(ctx context.Context, id string) (dashboard.Session, error)
	ApplyEvent(ctx context.Context, id string, ev dashboard.Event) (dashboard.Session, error)
}

// Frame is one outbound message.
type Frame struct {
	Type    string             `json:"type"`
	ID      string             `json:"id,omitempty"`
	Session *dashboard.Session `json:"session,omitempty"`
	Error   *ErrorBody         `json:"error,omitempty"`
}

// ErrorBody mirrors the HTTP error body.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler upgrades /ws requests.
type Handler struct {
	deps       Dependencies
	upgrader   websocket.Upgrader
	maxMessage int64
	pongWait   time.Duration
	log        logger.Logger
}

// NewHandler creates the websocket handler.
func NewHandler(deps Dependencies, opts ...Option) *Handler {
	h := &Handler{
		deps:       deps,
		maxMessage: DefaultMaxMessageBytes,
		pongWait:   DefaultPongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Named("ws")
	}
	return h
}

// Register attaches GET /ws?session=<id> to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	mux.Handle("/ws", h)
}

// ServeHTTP checks the session, upgrades, and runs the read loop until the
// peer goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, err := h.deps.Session(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	metrics.UpdateWSConnections(1)
	defer metrics.UpdateWSConnections(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer conn.Close()

	h.log.Debug(ctx, "websocket connected", logger.String("session", id))
	go h.ping(ctx, conn)

	if err := h.write(conn, Frame{Type: FrameSession, ID: id, Session: &sess}); err != nil {
		return
	}
	h.readLoop(ctx, conn, id)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, id string) {
	conn.SetReadLimit(h.maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn(ctx, "websocket read failed", logger.String("session", id), logger.Error(err))
			}
			return
		}
		metrics.RecordWSMessage("in")

		if kind != websocket.TextMessage {
			if err := h.write(conn, errorFrame(id, "bad_frame", errors.New("only text frames are accepted"))); err != nil {
				return
			}
			continue
		}

		out, fatal := h.handle(ctx, id, data)
		if err := h.write(conn, out); err != nil || fatal {
			return
		}
	}
}

// handle applies one inbound frame. fatal is set when the session is gone.
func (h *Handler) handle(ctx context.Context, id string, data []byte) (out Frame, fatal bool) {
	ev, err := dashboard.DecodeEvent(data)
	if err != nil {
		return errorFrame(id, errorCode(err), err), false
	}
	sess, err := h.deps.ApplyEvent(ctx, id, ev)
	if err != nil {
		return errorFrame(id, errorCode(err), err), errors.Is(err, session.ErrNotFound)
	}
	return Frame{Type: FrameSession, ID: id, Session: &sess}, false
}

func (h *Handler) write(conn *websocket.Conn, f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return err
	}
	metrics.RecordWSMessage("out")
	return nil
}

// ping keeps the read deadline moving. WriteControl may run concurrently
// with the read loop's writes.
func (h *Handler) ping(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(h.pongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func errorFrame(id, code string, err error) Frame {
	return Frame{Type: FrameError, ID: id, Error: &ErrorBody{Code: code, Message: err.Error()}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "session_not_found"
	case errors.Is(err, dashboard.ErrUnknownEvent):
		return "unknown_event"
	case errors.Is(err, dashboard.ErrInvalidEvent):
		return "bad_request"
	}
	return "internal"
}
