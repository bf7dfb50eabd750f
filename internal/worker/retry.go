package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/dailyenglish/internal/logger"
)

// RetryJob re-runs Job up to MaxAttempts times, sleeping Base, 2*Base,
// 4*Base... between attempts. Cancelling the context stops the retries.
type RetryJob struct {
	Job         Job
	MaxAttempts int
	Base        time.Duration
}

// WithRetry wraps job in a RetryJob.
func WithRetry(job Job, maxAttempts int, base time.Duration) *RetryJob {
	return &RetryJob{Job: job, MaxAttempts: maxAttempts, Base: base}
}

func (j *RetryJob) Name() string { return j.Job.Name() }

func (j *RetryJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	attempts := max(j.MaxAttempts, 1)

	var err error
	delay := j.Base
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = j.Job.Run(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.Warn("attempt %d/%d failed, retrying in %v: %v", attempt, attempts, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s cancelled after %d attempts: %w", j.Job.Name(), attempt, err)
		case <-timer.C:
		}
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", j.Job.Name(), attempts, err)
}
