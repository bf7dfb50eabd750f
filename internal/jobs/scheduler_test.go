package jobs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/jobs"
)

type countingSessions struct {
	ticks atomic.Int32
}

func (s *countingSessions) TickStudyMinutes(context.Context) int {
	s.ticks.Add(1)
	return 1
}

func (s *countingSessions) ExpireIdle(context.Context, time.Time) int { return 0 }

func TestScheduler_RunsStudyTicker(t *testing.T) {
	sessions := &countingSessions{}
	s := jobs.NewScheduler(time.UTC, "@every 1s", sessions)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return sessions.ticks.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := jobs.NewScheduler(nil, "every so often", &countingSessions{})

	err := s.Start(context.Background())
	assert.Error(t, err)
}
