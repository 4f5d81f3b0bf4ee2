package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleDetail handles GET /api/passes/{id}/detail.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.PassDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
