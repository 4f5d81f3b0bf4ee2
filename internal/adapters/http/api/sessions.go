package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/passmap/internal/adapters/export"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/pkg/metrics"
)

// handleCreateSession handles POST /api/sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, SessionView{ID: id, Session: sess})
}

// handleGetSession handles GET /api/sessions/{id}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.deps.Session(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{ID: id, Session: sess})
}

// handleDeleteSession handles DELETE /api/sessions/{id}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.deps.DeleteSession(r.Context(), id) {
		writeError(w, http.StatusNotFound, "session_not_found", fmt.Errorf("session %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvent handles POST /api/sessions/{id}/events.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
			return
		}
		writeFailure(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ev, err := dashboard.DecodeEvent(body)
	if err != nil {
		writeFailure(w, err)
		return
	}
	sess, err := s.deps.ApplyEvent(r.Context(), id, ev)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{ID: id, Session: sess})
}

// handleExport handles GET /api/sessions/{id}/plot.{format}.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, err := export.ContentType(format)
	if err != nil {
		writeError(w, http.StatusNotFound, "unsupported_format", err)
		return
	}
	sess, err := s.deps.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Render(sess.Figure, format, &buf); err != nil {
		writeFailure(w, err)
		return
	}
	metrics.RecordRender(format)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
