package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/passmap/internal/domain/catalog"
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/internal/domain/types"
)

// maxSearchLimit caps the type-ahead page size.
const maxSearchLimit = 100

type catalogsResponse struct {
	Catalogs catalog.Set   `json:"catalogs"`
	Slider   render.Slider `json:"slider"`
}

type searchResponse struct {
	Dimension types.Dimension `json:"dimension"`
	Query     string          `json:"query"`
	Options   []model.Option  `json:"options"`
}

type aggregateRow struct {
	PlayerID   int64   `json:"player_id"`
	PositionID int64   `json:"position_id"`
	PlayerName string  `json:"player_name"`
	Passes     int     `json:"passes"`
	SumXT      float64 `json:"sum_xt"`
	MeanXT     float64 `json:"mean_xt"`
	Label      string  `json:"label"`
}

// handleCatalogs handles GET /api/catalogs.
func (s *Server) handleCatalogs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogsResponse{Catalogs: s.deps.Catalogs(), Slider: s.deps.Slider()})
}

// handleSearch handles GET /api/catalogs/{dimension}/search?q=&limit=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	dim, err := types.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	limit, err := parseLimit(r, catalog.DefaultSearchLimit, maxSearchLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	q := r.URL.Query().Get("q")
	opts := s.deps.Catalogs().For(dim).Search(q, limit)
	if opts == nil {
		opts = []model.Option{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Dimension: dim, Query: q, Options: opts})
}

// handleAggregates handles GET /api/aggregates?limit=.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	aggs := s.deps.Aggregates()
	limit, err := parseLimit(r, len(aggs), len(aggs))
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows := make([]aggregateRow, 0, limit)
	for _, a := range aggs[:limit] {
		rows = append(rows, aggregateRow{
			PlayerID:   a.PlayerID,
			PositionID: a.PositionID,
			PlayerName: a.PlayerName,
			Passes:     a.Count,
			SumXT:      a.SumXT,
			MeanXT:     a.MeanXT,
			Label:      a.Label,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

// parseLimit reads ?limit=, falling back to def and clamping to max.
func parseLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer, got %q", ErrBadRequest, raw)
	}
	if n > max {
		n = max
	}
	return n, nil
}
