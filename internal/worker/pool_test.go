package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	pool := worker.NewPool("test-pool", 2, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(context.Background(), funcJob{name: "count", fn: func(context.Context) error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}))
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	pool := worker.NewPool("test-pool", 1, 8)

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.TrySubmit(funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			return nil
		}}))
	}
	pool.Start(context.Background())
	pool.Stop()

	assert.Equal(t, int32(3), ran.Load())
}

func TestPool_TrySubmitWhenFull(t *testing.T) {
	pool := worker.NewPool("test-pool", 1, 1)
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, pool.TrySubmit(noop))
	assert.ErrorIs(t, pool.TrySubmit(noop), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := worker.NewPool("test-pool", 1, 1)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	assert.ErrorIs(t, pool.TrySubmit(noop), worker.ErrPoolStopped)
	assert.ErrorIs(t, pool.Submit(context.Background(), noop), worker.ErrPoolStopped)
}

func TestPool_SubmitHonorsContext(t *testing.T) {
	pool := worker.NewPool("test-pool", 1, 1)
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}
	require.NoError(t, pool.TrySubmit(noop))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Submit(ctx, noop), context.DeadlineExceeded)
}

func TestRetryJob_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	job := worker.WithRetry(funcJob{name: "flaky", fn: func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("network down")
		}
		return nil
	}}, 5, time.Millisecond)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 3, calls)
	assert.Equal(t, "flaky", job.Name())
}

func TestRetryJob_GivesUp(t *testing.T) {
	cause := errors.New("permission denied")
	calls := 0
	job := worker.WithRetry(funcJob{name: "doomed", fn: func(context.Context) error {
		calls++
		return cause
	}}, 3, time.Millisecond)

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestRetryJob_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	job := worker.WithRetry(funcJob{name: "slow", fn: func(context.Context) error {
		calls++
		cancel()
		return errors.New("timeout")
	}}, 10, time.Hour)

	err := job.Run(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
