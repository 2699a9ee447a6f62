package web

import "net/http"

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	records, err := s.service.History(r.Context(), sess)
	if err != nil {
		s.logger.Error("list history failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	if err := s.service.ClearHistory(r.Context(), sess); err != nil {
		s.logger.Error("clear history failed", "session", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type providersResponse struct {
	Identify []string `json:"identify"`
	Chat     []string `json:"chat"`
	Warning  string   `json:"warning,omitempty"`
}

// handleGetProviders reports which providers are configured per capability so
// the page can surface a missing-credentials notice instead of failing later.
func (s *Server) handleGetProviders(w http.ResponseWriter, r *http.Request) {
	identify, chat := s.service.Providers()

	resp := providersResponse{Identify: identify, Chat: chat}
	if len(identify) == 0 && len(chat) == 0 {
		resp.Warning = "No AI provider API keys are configured. Set at least one key (e.g. OPENAI_API_KEY) to enable identification and chat."
	}
	writeJSON(w, http.StatusOK, resp)
}
