package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vytor/dailyenglish/internal/logger"
)

// ExpirySpec is how often idle sessions are looked for.
const ExpirySpec = "@every 1m"

// Sessions is the part of the session registry the scheduler drives.
type Sessions interface {
	// TickStudyMinutes credits one study minute to every open session.
	TickStudyMinutes(ctx context.Context) int
	// ExpireIdle closes sessions idle since before now minus the idle
	// timeout and returns how many were closed.
	ExpireIdle(ctx context.Context, now time.Time) int
}

// Scheduler runs the periodic session jobs on a cron in the study calendar's
// time zone.
type Scheduler struct {
	cron     *cron.Cron
	sessions Sessions
	tickSpec string
	log      *logger.Logger
}

func NewScheduler(loc *time.Location, tickSpec string, sessions Sessions) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		sessions: sessions,
		tickSpec: tickSpec,
		log:      logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the jobs and starts the cron. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx = logger.NewContext(ctx, s.log)

	if _, err := s.cron.AddFunc(s.tickSpec, func() {
		n := s.sessions.TickStudyMinutes(ctx)
		s.log.Debug("study minute credited to %d sessions", n)
	}); err != nil {
		return fmt.Errorf("schedule study ticker %q: %w", s.tickSpec, err)
	}

	if _, err := s.cron.AddFunc(ExpirySpec, func() {
		if n := s.sessions.ExpireIdle(ctx, time.Now()); n > 0 {
			s.log.Info("closed %d idle sessions", n)
		}
	}); err != nil {
		return fmt.Errorf("schedule session expiry: %w", err)
	}

	s.cron.Start()
	s.log.Info("scheduler started (tick=%s)", s.tickSpec)
	return nil
}

// Stop stops the cron and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
