package api

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	AI      bool   `json:"ai"`
	Catalog int    `json:"catalog"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		AI:      s.responder.Available(s.capability),
		Catalog: s.catalog.Len(),
	})
}
