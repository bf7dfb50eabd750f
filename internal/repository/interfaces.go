package repository

import (
	"context"
	"time"

	"github.com/vytor/dailyenglish/internal/models"
)

// DayLogRepository stores one document per (user, logical date).
type DayLogRepository interface {
	ListDayLogs(ctx context.Context, uid string) (models.LogsMap, error)
	// SaveDayLog replaces the whole document for the date.
	SaveDayLog(ctx context.Context, uid, dateKey string, log models.DailyLog) error
}

// SummaryRepository stores the per-account rollup read by admin reporting.
type SummaryRepository interface {
	// UpsertSummary merges s into the stored summary. A nil LastLogin keeps
	// the stored value.
	UpsertSummary(ctx context.Context, s models.StudentSummary) error
	// TouchLogin stamps the session start, creating the summary if needed.
	TouchLogin(ctx context.Context, id models.Identity, at time.Time) error
	GetSummary(ctx context.Context, uid string) (*models.StudentSummary, error)
	ListSummaries(ctx context.Context) ([]models.StudentSummary, error)
}

// Store is everything a remote backend has to persist.
type Store interface {
	DayLogRepository
	SummaryRepository
}

// RemoteStore adds change notifications. Each emission on the channel is a
// full snapshot of the user's day-map. The channel closes when ctx is done.
type RemoteStore interface {
	Store
	Subscribe(ctx context.Context, uid string) (<-chan models.LogsMap, error)
}

// LocalCache holds the serialized day-map of one user on this machine.
type LocalCache interface {
	// ReadLogs returns nil, nil when nothing was ever written.
	ReadLogs() ([]byte, error)
	WriteLogs(data []byte) error
}
