package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/logger"
	"github.com/spigell/folio/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errMalformedBody = errors.New("malformed request body")

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler should go on. An empty
// body decodes as an empty object so required fields are reported as missing.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	log := logger.FromContext(r.Context(), s.logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		log.Warn("failed to read request body", zap.Error(err))
		respondError(w, http.StatusInternalServerError, errMalformedBody.Error())
		return false
	}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			log.Warn("failed to decode request body", zap.Error(err))
			respondError(w, http.StatusInternalServerError, errMalformedBody.Error())
			return false
		}
	}

	if err := validation.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
