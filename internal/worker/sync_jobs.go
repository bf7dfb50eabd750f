package worker

import (
	"context"

	"github.com/vytor/dailyenglish/internal/logger"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
)

// SaveDayLogJob writes one day record to the remote store.
type SaveDayLogJob struct {
	Repo    repository.DayLogRepository
	UID     string
	DateKey string
	Log     models.DailyLog
}

func (j *SaveDayLogJob) Name() string { return "save_day_log" }

func (j *SaveDayLogJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).Debug("writing day log: uid=%s date=%s", j.UID, j.DateKey)
	return j.Repo.SaveDayLog(ctx, j.UID, j.DateKey, j.Log)
}

// SaveSummaryJob merge-upserts a freshly rebuilt student summary.
type SaveSummaryJob struct {
	Repo    repository.SummaryRepository
	Summary models.StudentSummary
}

func (j *SaveSummaryJob) Name() string { return "save_summary" }

func (j *SaveSummaryJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).Debug("upserting summary: uid=%s", j.Summary.UID)
	return j.Repo.UpsertSummary(ctx, j.Summary)
}
