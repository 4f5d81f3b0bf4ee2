// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/internal/domain/types"
)

// maxEventBytes bounds a POSTed event body.
const maxEventBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Catalogs returns the unfiltered dropdown options.
	Catalogs() catalog.Set
	// Aggregates returns the player aggregate table, best first.
	Aggregates() []model.PlayerAggregate
	// Slider returns the xT range control settings.
	Slider() render.Slider

	CreateSession(ctx context.Context) (string, dashboard.Session, error)
	Session(ctx context.Context, id string) (dashboard.Session, error)
	ApplyEvent(ctx context.Context, id string, ev dashboard.Event) (dashboard.Session, error)
	DeleteSession(ctx context.Context, id string) bool

	// PassDetail draws one pass with its freeze frame.
	PassDetail(ctx context.Context, passID string) (render.DetailView, error)
	// Ready reports whether the dataset is loaded.
	Ready() bool
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps          Dependencies
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		deps:          deps,
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux. Everything under /api/ is served
// by a chi router.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/api/", s.Router())
}

// Router returns the /api routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogs", MetricsMiddleware(s.handleCatalogs, "catalogs"))
		r.Get("/catalogs/{dimension}/search", MetricsMiddleware(s.handleSearch, "catalog_search"))
		r.Get("/aggregates", MetricsMiddleware(s.handleAggregates, "aggregates"))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", MetricsMiddleware(s.handleCreateSession, "session_create"))
			r.Get("/{id}", MetricsMiddleware(s.handleGetSession, "session_get"))
			r.Delete("/{id}", MetricsMiddleware(s.handleDeleteSession, "session_delete"))
			r.Post("/{id}/events", MetricsMiddleware(s.handleEvent, "session_event"))
			r.Get("/{id}/plot.{format}", MetricsMiddleware(s.handleExport, "session_export"))
		})

		r.Get("/passes/{id}/detail", MetricsMiddleware(s.handleDetail, "pass_detail"))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

// SessionView is a session with its id.
type SessionView struct {
	ID string `json:"id"`
	dashboard.Session
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a sentinel error to its status code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, render.ErrPassNotFound):
		return http.StatusNotFound, "pass_not_found"
	case errors.Is(err, dashboard.ErrUnknownEvent):
		return http.StatusUnprocessableEntity, "unknown_event"
	case errors.Is(err, model.ErrNoFreezeFrame):
		return http.StatusUnprocessableEntity, dashboard.ReasonNoFreezeFrame
	case errors.Is(err, model.ErrMalformedFreezeFrame):
		return http.StatusUnprocessableEntity, dashboard.ReasonMalformedFrame
	case errors.Is(err, dashboard.ErrInvalidEvent),
		errors.Is(err, types.ErrUnknownDimension),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	}
	return http.StatusInternalServerError, "internal"
}
