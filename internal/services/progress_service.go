package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/logicalday"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/stats"
	"github.com/vytor/dailyenglish/internal/vocab"
)

// ProgressService answers read-only questions about a learner's day-map.
type ProgressService interface {
	MonthLogs(ctx context.Context, t *engine.Tracker, year int, month time.Month) models.LogsMap
	MonthlyStats(ctx context.Context, t *engine.Tracker, year int, month time.Month) models.MonthlyTotals
	Weeks(ctx context.Context, t *engine.Tracker, year int, month time.Month) []models.WeekStatus
	VocabSample(ctx context.Context, t *engine.Tracker, anchorKey string, minCount int) ([]models.VocabEntry, error)
	VocabReview(ctx context.Context, t *engine.Tracker, year int, month time.Month) []models.ReviewWeek
	Summary(ctx context.Context, t *engine.Tracker) (models.StudentSummary, error)
	Students(ctx context.Context) ([]models.StudentSummary, error)
}

type progressService struct {
	summaries repository.SummaryRepository
	clock     logicalday.Clock
	shuffler  vocab.Shuffler
}

// NewProgressService creates a new ProgressService. summaries may be nil
// when no remote backend is configured.
func NewProgressService(summaries repository.SummaryRepository, clock logicalday.Clock, shuffler vocab.Shuffler) ProgressService {
	if clock == nil {
		clock = logicalday.SystemClock{}
	}
	return &progressService{summaries: summaries, clock: clock, shuffler: shuffler}
}

func (s *progressService) MonthLogs(ctx context.Context, t *engine.Tracker, year int, month time.Month) models.LogsMap {
	monthKey := logicalday.MonthPrefix(year, month)
	out := make(models.LogsMap)
	for key, l := range t.Snapshot() {
		if strings.HasPrefix(key, monthKey+"-") {
			out[key] = l
		}
	}
	logger.FromContext(ctx).Debug("month logs: month=%s, days=%d", monthKey, len(out))
	return out
}

func (s *progressService) MonthlyStats(_ context.Context, t *engine.Tracker, year int, month time.Month) models.MonthlyTotals {
	return stats.MonthlyTotals(t.Snapshot(), year, month)
}

func (s *progressService) Weeks(_ context.Context, t *engine.Tracker, year int, month time.Month) []models.WeekStatus {
	return stats.WeekStatuses(t.Snapshot(), year, month)
}

func (s *progressService) VocabSample(ctx context.Context, t *engine.Tracker, anchorKey string, minCount int) ([]models.VocabEntry, error) {
	if anchorKey == "" {
		anchorKey = t.TodayKey()
	}
	if minCount <= 0 {
		minCount = vocab.DefaultMinimum
	}

	words, err := vocab.Sample(t.Snapshot(), anchorKey, minCount, s.shuffler)
	if err != nil {
		return nil, errors.NewValidationError("date", err.Error())
	}
	logger.FromContext(ctx).Debug("vocab sample: anchor=%s, words=%d", anchorKey, len(words))
	return words, nil
}

func (s *progressService) VocabReview(_ context.Context, t *engine.Tracker, year int, month time.Month) []models.ReviewWeek {
	return vocab.ReviewByWeek(t.Snapshot(), year, month)
}

// Summary rebuilds the learner's rollup from the live day-map. The last
// login time comes from the stored summary when there is one.
func (s *progressService) Summary(ctx context.Context, t *engine.Tracker) (models.StudentSummary, error) {
	log := logger.FromContext(ctx)

	id := models.Identity{UID: LocalUID}
	if remote := t.Identity(); remote != nil {
		id = *remote
	}

	sum, err := stats.BuildStudentSummary(t.Snapshot(), id, t.TodayKey(), s.clock.Now())
	if err != nil {
		log.Error("failed to build summary: %v", err)
		return models.StudentSummary{}, errors.NewInternalError(err)
	}

	if s.summaries == nil || t.Identity() == nil {
		return sum, nil
	}
	stored, err := s.summaries.GetSummary(ctx, id.UID)
	if err != nil {
		log.Warn("failed to load stored summary: uid=%s: %v", id.UID, err)
		return sum, nil
	}
	if stored != nil {
		sum.LastLogin = stored.LastLogin
	}
	return sum, nil
}

// Students lists every stored summary for admin reporting.
func (s *progressService) Students(ctx context.Context) ([]models.StudentSummary, error) {
	log := logger.FromContext(ctx)
	if s.summaries == nil {
		return []models.StudentSummary{}, nil
	}

	list, err := s.summaries.ListSummaries(ctx)
	if err != nil {
		log.Error("failed to list summaries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		list = []models.StudentSummary{}
	}
	return list, nil
}
