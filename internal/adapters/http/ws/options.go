package ws

import (
	"net/http"
	"time"

	"github.com/okian/passmap/pkg/logger"
)

// Option configures a Handler.
type Option func(*Handler)

// WithMaxMessageBytes caps inbound frames. Non-positive values are ignored.
func WithMaxMessageBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMessage = n
		}
	}
}

// WithPongWait sets how long a silent peer is kept. Pings go out at 90% of it.
func WithPongWait(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.pongWait = d
		}
	}
}

// WithCheckOrigin overrides the upgrader's same-origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithLogger sets the handler logger.
func WithLogger(log logger.Logger) Option {
	return func(h *Handler) {
		h.log = log
	}
}
