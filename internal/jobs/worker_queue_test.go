package jobs_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/jobs"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/testutil/mocks"
	"github.com/vytor/dailyenglish/internal/worker"
)

// gatedStore blocks the first SaveDayLog until release is closed and records
// every write in order.
type gatedStore struct {
	repository.Store
	release chan struct{}
	started chan struct{}
	once    sync.Once

	mu     sync.Mutex
	writes []int
}

func (s *gatedStore) SaveDayLog(ctx context.Context, uid, dateKey string, l models.DailyLog) error {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	s.mu.Lock()
	s.writes = append(s.writes, l.StudyMinutes)
	s.mu.Unlock()
	return nil
}

func (s *gatedStore) recorded() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.writes...)
}

func TestWorkerQueue_WritesDayLogAndSummary(t *testing.T) {
	store := new(mocks.MockRemoteStore)
	day := models.DailyLog{StudyMinutes: 1}
	summary := models.StudentSummary{UID: "u1", TotalStudyMinutes: 1}
	store.On("SaveDayLog", mock.Anything, "u1", "2025-03-10", day).Return(nil).Once()
	store.On("UpsertSummary", mock.Anything, summary).Return(nil).Once()

	pool := worker.NewPool("sync", 1, 8)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, store, 3, time.Millisecond)

	require.NoError(t, q.EnqueueDayLog("u1", "2025-03-10", day))
	require.NoError(t, q.EnqueueSummary(summary))
	pool.Stop()

	store.AssertExpectations(t)
	assert.Equal(t, 0, q.Pending())
}

func TestWorkerQueue_RetriesFailedWrites(t *testing.T) {
	store := new(mocks.MockRemoteStore)
	day := models.DailyLog{StudyMinutes: 2}
	store.On("SaveDayLog", mock.Anything, "u1", "2025-03-10", day).Return(errors.New("unavailable")).Twice()
	store.On("SaveDayLog", mock.Anything, "u1", "2025-03-10", day).Return(nil).Once()

	pool := worker.NewPool("sync", 1, 8)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, store, 3, time.Millisecond)

	require.NoError(t, q.EnqueueDayLog("u1", "2025-03-10", day))
	pool.Stop()

	store.AssertNumberOfCalls(t, "SaveDayLog", 3)
}

func TestWorkerQueue_CoalescesWritesForSameDay(t *testing.T) {
	store := &gatedStore{release: make(chan struct{}), started: make(chan struct{})}

	pool := worker.NewPool("sync", 4, 8)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, store, 1, time.Millisecond)

	require.NoError(t, q.EnqueueDayLog("u1", "2025-03-10", models.DailyLog{StudyMinutes: 1}))
	<-store.started
	for i := 2; i <= 5; i++ {
		require.NoError(t, q.EnqueueDayLog("u1", "2025-03-10", models.DailyLog{StudyMinutes: i}))
	}
	close(store.release)
	pool.Stop()

	assert.Equal(t, []int{1, 5}, store.recorded(), "intermediate values are skipped and the newest lands last")
	assert.Equal(t, 0, q.Pending())
}

func TestWorkerQueue_FullQueueDropsWrite(t *testing.T) {
	store := new(mocks.MockRemoteStore)
	pool := worker.NewPool("sync", 1, 1)
	q := jobs.NewWorkerQueue(pool, store, 1, time.Millisecond)

	require.NoError(t, q.EnqueueDayLog("u1", "2025-03-10", models.DailyLog{}))
	err := q.EnqueueDayLog("u1", "2025-03-11", models.DailyLog{})

	assert.ErrorIs(t, err, worker.ErrQueueFull)
	assert.Equal(t, 1, q.Pending())
}
