package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spigell/folio/internal/metrics"
	"github.com/spigell/folio/internal/views"
)

type snapshotResponse struct {
	Pages []views.Page `json:"pages"`
}

func (s *Server) handleViewsGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	count, err := s.views.Get(slug)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, views.Page{Slug: slug, Views: count})
}

func (s *Server) handleViewsIncrement(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	count, err := s.views.Increment(slug)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.PageViews.Inc()

	respondJSON(w, http.StatusOK, views.Page{Slug: slug, Views: count})
}

func (s *Server) handleViewsSnapshot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, snapshotResponse{Pages: s.views.Snapshot()})
}
