package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ysalama/plantdoc/internal/service"
	"github.com/ysalama/plantdoc/internal/session"
)

// sessionCookie names the cookie carrying the session id. The browser UI is
// an external collaborator; this server only speaks JSON plus the stored
// photo bytes.
const sessionCookie = "plantdoc_session"

type Server struct {
	service  *service.PlantService
	sessions *session.Manager
	mux      *http.ServeMux
	logger   *slog.Logger
}

func NewServer(svc *service.PlantService, sessions *session.Manager, logger *slog.Logger) *Server {
	s := &Server{
		service:  svc,
		sessions: sessions,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/identify", s.handleIdentify)
	s.mux.HandleFunc("POST /api/diagnose", s.handleDiagnose)
	s.mux.HandleFunc("GET /api/photo", s.handleGetPhoto)

	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /api/chat", s.handleGetChat)
	s.mux.HandleFunc("DELETE /api/chat", s.handleClearChat)

	s.mux.HandleFunc("GET /api/context", s.handleGetContext)
	s.mux.HandleFunc("DELETE /api/context", s.handleClearContext)

	s.mux.HandleFunc("GET /api/history", s.handleGetHistory)
	s.mux.HandleFunc("DELETE /api/history", s.handleClearHistory)

	s.mux.HandleFunc("GET /api/providers", s.handleGetProviders)
}

// session resolves the request's session from its cookie, creating a new
// session (and setting the cookie) when none exists.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	sess := s.sessions.GetOrCreate(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError responds with a renderable failure message, never a bare status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success":       false,
		"error_message": msg,
	})
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		// A full identify pass can walk several providers at up to 60s each.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
