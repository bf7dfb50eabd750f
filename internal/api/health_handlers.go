package api

import (
	"net/http"

	"github.com/vytor/dailyenglish/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 503 while the remote backend is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Ready != nil {
		if err := s.Ready(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed: %v", err)
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "remote store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"sessions": len(s.Sessions.OpenSessions()),
	})
}
