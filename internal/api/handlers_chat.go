package api

import (
	"net/http"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/responder"
)

type chatRequest struct {
	Message             string       `json:"message" validate:"required,max=4000"`
	ConversationHistory []ai.Message `json:"conversationHistory,omitempty" validate:"omitempty,dive"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.chat(w, r, responder.RoleChat)
}

func (s *Server) handlePersonaChat(w http.ResponseWriter, r *http.Request) {
	s.chat(w, r, responder.RolePersona)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request, role responder.Role) {
	var req chatRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result := s.responder.Respond(r.Context(), responder.Task{
		Role:    role,
		Prompt:  req.Message,
		History: req.ConversationHistory,
	}, s.capability)

	w.Header().Set(headerResponseKind, string(result.Kind))
	respondJSON(w, http.StatusOK, chatResponse{Success: true, Response: result.Text})
}
