package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/folio/internal/keywords"
	"github.com/spigell/folio/internal/logger"
	"github.com/spigell/folio/internal/metrics"
	"github.com/spigell/folio/internal/responder"
	"github.com/spigell/folio/internal/scoring"
)

const recommendationCount = 3

type recommendRequest struct {
	Type        string              `json:"type" validate:"required,oneof=movie music"`
	Preferences scoring.Preferences `json:"preferences"`
}

type recommendResponse struct {
	Success         bool                      `json:"success"`
	Recommendations []scoring.ScoredCandidate `json:"recommendations"`
	Stats           scoring.Stats             `json:"stats"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	log := logger.FromContext(r.Context(), s.logger)

	category := req.Type
	items, err := s.catalog.ByCategory(category)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	scored, err := s.engine.Score(items, req.Preferences)
	if err != nil {
		if errors.Is(err, scoring.ErrEmptyCatalog) {
			log.Error("no candidates to score", zap.String("category", category))
		} else {
			log.Error("scoring failed", zap.String("category", category), zap.Error(err))
		}
		respondError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}

	metrics.Recommendations.WithLabelValues(category).Inc()

	respondJSON(w, http.StatusOK, recommendResponse{
		Success:         true,
		Recommendations: scoring.Top(scored, recommendationCount),
		Stats:           s.engine.Stats(category),
	})
}

type optimizeRequest struct {
	Section        string `json:"section" validate:"required,max=100"`
	Content        string `json:"content" validate:"required,max=20000"`
	JobDescription string `json:"jobDescription,omitempty" validate:"omitempty,max=20000"`
}

type optimizeResponse struct {
	Success         bool                   `json:"success"`
	Suggestion      string                 `json:"suggestion"`
	ATSScore        int                    `json:"atsScore"`
	Keywords        []string               `json:"keywords"`
	Improvements    []string               `json:"improvements"`
	MissingKeywords []string               `json:"missingKeywords,omitempty"`
	Analysis        scoring.AnalysisReport `json:"analysis"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result := s.responder.Respond(r.Context(), responder.Task{
		Role:   responder.RoleResumeSuggestion,
		Prompt: responder.ResumePrompt(req.Section, req.Content, req.JobDescription),
	}, s.capability)

	report := s.engine.AnalyzeText(req.Content)

	var missing []string
	if strings.TrimSpace(req.JobDescription) != "" {
		report.BlendRelevance(keywords.OverlapRatio(req.Content, req.JobDescription))
		missing = keywords.Missing(req.Content, req.JobDescription, keywords.DefaultTopN)
	}

	w.Header().Set(headerResponseKind, string(result.Kind))
	respondJSON(w, http.StatusOK, optimizeResponse{
		Success:         true,
		Suggestion:      result.Text,
		ATSScore:        report.ATSScore,
		Keywords:        keywords.ExtractKeywords(req.Content, keywords.DefaultTopN),
		Improvements:    report.Recommendations,
		MissingKeywords: missing,
		Analysis:        report,
	})
}
