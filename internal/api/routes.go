package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Use(identityMiddleware)

		r.Post("/session", s.handleOpenSession)
		r.Delete("/session", s.handleCloseSession)
		r.Get("/admin/students", s.handleStudents)

		r.Group(func(r chi.Router) {
			r.Use(s.trackerMiddleware)

			r.Get("/today", s.handleToday)
			r.Get("/logs", s.handleMonthLogs)
			r.Get("/days/{date}", s.handleGetDay)
			r.Patch("/days/{date}", s.handlePatchDay)
			r.Post("/days/{date}/challenges/paper", s.handlePaperChallenge)
			r.Post("/days/{date}/challenges/speaking", s.handleSpeakingChallenge)
			r.Post("/days/{date}/challenges/word-streak", s.handleWordStreak)
			r.Post("/days/{date}/gems", s.handleAwardGems)

			r.Get("/stats/monthly", s.handleMonthlyStats)
			r.Get("/stats/weeks", s.handleWeeks)
			r.Get("/vocab/sample", s.handleVocabSample)
			r.Get("/vocab/review", s.handleVocabReview)
			r.Get("/summary", s.handleSummary)
		})
	})
	return r
}
