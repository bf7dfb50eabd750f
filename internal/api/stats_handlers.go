package api

import (
	"net/http"

	"github.com/vytor/dailyenglish/internal/vocab"
)

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	year, month, err := monthParam(r, t)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Progress.MonthlyStats(r.Context(), t, year, month))
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	year, month, err := monthParam(r, t)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Progress.Weeks(r.Context(), t, year, month))
}

func (s *Server) handleVocabSample(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	minCount, err := intQuery(r, "min", vocab.DefaultMinimum)
	if err != nil {
		handleError(w, r, err)
		return
	}
	words, err := s.Progress.VocabSample(r.Context(), t, r.URL.Query().Get("date"), minCount)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (s *Server) handleVocabReview(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	year, month, err := monthParam(r, t)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Progress.VocabReview(r.Context(), t, year, month))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.Progress.Summary(r.Context(), trackerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	list, err := s.Progress.Students(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
