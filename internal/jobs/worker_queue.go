package jobs

import (
	"context"
	"time"

	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/worker"
)

// WorkerQueue implements SyncQueue on a worker pool, retrying each write
// with exponential backoff.
type WorkerQueue struct {
	pool        *worker.Pool
	store       repository.Store
	maxAttempts int
	retryBase   time.Duration

	dayLogs   *coalescer[models.DailyLog]
	summaries *coalescer[models.StudentSummary]
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, store repository.Store, maxAttempts int, retryBase time.Duration) *WorkerQueue {
	return &WorkerQueue{
		pool:        pool,
		store:       store,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
		dayLogs:     newCoalescer[models.DailyLog](),
		summaries:   newCoalescer[models.StudentSummary](),
	}
}

var _ SyncQueue = (*WorkerQueue)(nil)

func (q *WorkerQueue) EnqueueDayLog(uid, dateKey string, log models.DailyLog) error {
	key := uid + "/" + dateKey
	if !q.dayLogs.offer(key, log) {
		return nil
	}
	err := q.pool.TrySubmit(&drainJob[models.DailyLog]{
		name: "save_day_log",
		key:  key,
		c:    q.dayLogs,
		write: func(ctx context.Context, l models.DailyLog) error {
			job := &worker.SaveDayLogJob{Repo: q.store, UID: uid, DateKey: dateKey, Log: l}
			return worker.WithRetry(job, q.maxAttempts, q.retryBase).Run(ctx)
		},
	})
	if err != nil {
		q.dayLogs.abandon(key)
	}
	return err
}

func (q *WorkerQueue) EnqueueSummary(summary models.StudentSummary) error {
	key := summary.UID
	if !q.summaries.offer(key, summary) {
		return nil
	}
	err := q.pool.TrySubmit(&drainJob[models.StudentSummary]{
		name: "save_summary",
		key:  key,
		c:    q.summaries,
		write: func(ctx context.Context, s models.StudentSummary) error {
			job := &worker.SaveSummaryJob{Repo: q.store, Summary: s}
			return worker.WithRetry(job, q.maxAttempts, q.retryBase).Run(ctx)
		},
	})
	if err != nil {
		q.summaries.abandon(key)
	}
	return err
}

// Pending reports how many keys still have a write queued or in flight.
func (q *WorkerQueue) Pending() int {
	return q.dayLogs.pending() + q.summaries.pending()
}
