package api

import (
	"net/http"

	"github.com/vytor/dailyenglish/internal/logger"
)

type sessionResponse struct {
	UID    string `json:"uid"`
	Today  string `json:"today"`
	Remote bool   `json:"remote"`
	Days   int    `json:"days"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	t, err := s.Sessions.Open(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		UID:    id.UID,
		Today:  t.TodayKey(),
		Remote: t.Identity() != nil,
		Days:   len(t.Snapshot()),
	})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := identityFromContext(r.Context())
	if !s.Sessions.Close(id.UID) {
		logger.FromContext(r.Context()).Debug("no open session to close")
	}
	w.WriteHeader(http.StatusNoContent)
}
