package api

import (
	"net/http"

	"github.com/vytor/dailyenglish/internal/dailylog"
	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
)

type dayResponse struct {
	Date     string          `json:"date"`
	Log      models.DailyLog `json:"log"`
	Editable bool            `json:"editable"`
}

type updateResponse struct {
	Date   string          `json:"date"`
	Log    models.DailyLog `json:"log"`
	Events []models.Event  `json:"events"`
}

// dayPatchRequest is the part of a day the learner edits directly. Rewards,
// timestamps and challenge state only change through their own endpoints.
type dayPatchRequest struct {
	Vocab1Meaning *string `json:"vocab1Meaning"`
	Vocab1Word    *string `json:"vocab1Word"`
	Vocab1Method  *string `json:"vocab1Method"`
	Vocab2Meaning *string `json:"vocab2Meaning"`
	Vocab2Word    *string `json:"vocab2Word"`
	Vocab2Method  *string `json:"vocab2Method"`
	VocabDone     *bool   `json:"vocabDone"`

	SpeakingTopic    *string `json:"speakingTopic"`
	SpeakingVocab    *string `json:"speakingVocab"`
	SpeakingDone     *bool   `json:"speakingDone"`
	SpeakingDuration *int    `json:"speakingDuration" validate:"omitempty,gte=0"`

	ListeningTopic    *string `json:"listeningTopic"`
	ListeningLink     *string `json:"listeningLink"`
	ListeningVocab    *string `json:"listeningVocab"`
	ListeningDone     *bool   `json:"listeningDone"`
	ListeningDuration *int    `json:"listeningDuration" validate:"omitempty,gte=0"`

	WritingContent  *string `json:"writingContent"`
	WritingDone     *bool   `json:"writingDone"`
	WritingDuration *int    `json:"writingDuration" validate:"omitempty,gte=0"`

	StudyMinutes *int `json:"studyMinutes" validate:"omitempty,gte=0"`
}

func (r dayPatchRequest) patch() models.Patch {
	return models.Patch{
		Vocab1Meaning: r.Vocab1Meaning,
		Vocab1Word:    r.Vocab1Word,
		Vocab1Method:  r.Vocab1Method,
		Vocab2Meaning: r.Vocab2Meaning,
		Vocab2Word:    r.Vocab2Word,
		Vocab2Method:  r.Vocab2Method,
		VocabDone:     r.VocabDone,

		SpeakingTopic:    r.SpeakingTopic,
		SpeakingVocab:    r.SpeakingVocab,
		SpeakingDone:     r.SpeakingDone,
		SpeakingDuration: r.SpeakingDuration,

		ListeningTopic:    r.ListeningTopic,
		ListeningLink:     r.ListeningLink,
		ListeningVocab:    r.ListeningVocab,
		ListeningDone:     r.ListeningDone,
		ListeningDuration: r.ListeningDuration,

		WritingContent:  r.WritingContent,
		WritingDone:     r.WritingDone,
		WritingDuration: r.WritingDuration,

		StudyMinutes: r.StudyMinutes,
	}
}

type wordStreakRequest struct {
	Words [dailylog.ChallengeWordCount]string `json:"words" validate:"dive,notblank"`
}

type gemsRequest struct {
	Game   string `json:"game" validate:"required,oneof=matching falling builder"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	key := t.TodayKey()
	writeJSON(w, http.StatusOK, dayResponse{Date: key, Log: t.Day(key), Editable: true})
}

func (s *Server) handleMonthLogs(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	year, month, err := monthParam(r, t)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Progress.MonthLogs(r.Context(), t, year, month))
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	t := trackerFromContext(r.Context())
	key, err := dateParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayResponse{Date: key, Log: t.Day(key), Editable: key >= t.TodayKey()})
}

func (s *Server) handlePatchDay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	key, err := dateParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req dayPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, events, err := trackerFromContext(r.Context()).Apply(r.Context(), key, req.patch())
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("patched day %s, events=%d", key, len(events))
	writeUpdate(w, key, updated, events)
}

func (s *Server) handlePaperChallenge(w http.ResponseWriter, r *http.Request) {
	s.runDayUpdate(w, r, func(t *engine.Tracker, key string) (models.DailyLog, []models.Event, error) {
		return t.CompletePaperChallenge(r.Context(), key)
	})
}

func (s *Server) handleSpeakingChallenge(w http.ResponseWriter, r *http.Request) {
	s.runDayUpdate(w, r, func(t *engine.Tracker, key string) (models.DailyLog, []models.Event, error) {
		return t.CompleteSpeakingChallenge(r.Context(), key)
	})
}

func (s *Server) handleWordStreak(w http.ResponseWriter, r *http.Request) {
	var req wordStreakRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.runDayUpdate(w, r, func(t *engine.Tracker, key string) (models.DailyLog, []models.Event, error) {
		return t.SubmitWordStreak(r.Context(), key, req.Words)
	})
}

func (s *Server) handleAwardGems(w http.ResponseWriter, r *http.Request) {
	var req gemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	game, err := engine.ParseGame(req.Game)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.runDayUpdate(w, r, func(t *engine.Tracker, key string) (models.DailyLog, []models.Event, error) {
		return t.AwardGems(r.Context(), key, game, req.Amount)
	})
}

func (s *Server) runDayUpdate(w http.ResponseWriter, r *http.Request, fn func(t *engine.Tracker, key string) (models.DailyLog, []models.Event, error)) {
	key, err := dateParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	updated, events, err := fn(trackerFromContext(r.Context()), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeUpdate(w, key, updated, events)
}

func writeUpdate(w http.ResponseWriter, key string, l models.DailyLog, events []models.Event) {
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, updateResponse{Date: key, Log: l, Events: events})
}
