package web

import (
	"encoding/json"
	"net/http"
	"strings"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}

	// Chat never fails outright: total provider failure comes back as a
	// displayable guidance string.
	reply := s.service.Chat(r.Context(), sess, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, sess.Chat())
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.ClearChat()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeJSON(w, http.StatusOK, sess.Context())
}

func (s *Server) handleClearContext(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.ClearContext()
	w.WriteHeader(http.StatusNoContent)
}
