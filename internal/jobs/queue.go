package jobs

import "github.com/vytor/dailyenglish/internal/models"

// SyncQueue hands remote writes to the background workers. Enqueue calls
// never block; an error means the write was dropped.
type SyncQueue interface {
	EnqueueDayLog(uid, dateKey string, log models.DailyLog) error
	EnqueueSummary(summary models.StudentSummary) error
}
