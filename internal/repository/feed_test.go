package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/repository/sqlite"
	"github.com/vytor/dailyenglish/internal/testutil"
)

func receive(t *testing.T, ch <-chan models.LogsMap) models.LogsMap {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "channel closed")
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestFeed_InitialSnapshotAndUpdates(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := repository.NewFeed(sqlite.NewStore(sqlDB))
	require.NoError(t, feed.SaveDayLog(ctx, "u1", "2025-03-09", models.DailyLog{StudyMinutes: 5}))

	ch, err := feed.Subscribe(ctx, "u1")
	require.NoError(t, err)

	initial := receive(t, ch)
	assert.Equal(t, 5, initial["2025-03-09"].StudyMinutes)

	require.NoError(t, feed.SaveDayLog(ctx, "u1", "2025-03-10", models.DailyLog{StudyMinutes: 7}))
	next := receive(t, ch)
	assert.Len(t, next, 2)
	assert.Equal(t, 7, next["2025-03-10"].StudyMinutes)
}

func TestFeed_SlowSubscriberSeesLatestOnly(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := repository.NewFeed(sqlite.NewStore(sqlDB))
	ch, err := feed.Subscribe(ctx, "u1")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, feed.SaveDayLog(ctx, "u1", "2025-03-10", models.DailyLog{StudyMinutes: i}))
	}

	latest := receive(t, ch)
	assert.Equal(t, 3, latest["2025-03-10"].StudyMinutes)
}

func TestFeed_OtherUsersNotNotified(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := repository.NewFeed(sqlite.NewStore(sqlDB))
	ch, err := feed.Subscribe(ctx, "u1")
	require.NoError(t, err)
	receive(t, ch)

	require.NoError(t, feed.SaveDayLog(ctx, "u2", "2025-03-10", models.DailyLog{StudyMinutes: 1}))

	select {
	case m := <-ch:
		t.Fatalf("unexpected snapshot %v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeed_CancelClosesChannel(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	feed := repository.NewFeed(sqlite.NewStore(sqlDB))

	ch, err := feed.Subscribe(ctx, "u1")
	require.NoError(t, err)
	receive(t, ch)
	assert.Equal(t, 1, feed.Subscribers("u1"))

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, feed.Subscribers("u1"))
}

// racingStore saves a day through the feed while the first ListDayLogs call
// is in progress, after it has already read its result.
type racingStore struct {
	repository.Store
	feed  *repository.Feed
	saved bool
}

func (s *racingStore) ListDayLogs(ctx context.Context, uid string) (models.LogsMap, error) {
	logs, err := s.Store.ListDayLogs(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !s.saved {
		s.saved = true
		err = s.feed.SaveDayLog(ctx, uid, "2025-03-10", models.DailyLog{StudyMinutes: 4})
	}
	return logs, err
}

func TestFeed_SaveDuringSubscribeIsDelivered(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &racingStore{Store: sqlite.NewStore(sqlDB)}
	feed := repository.NewFeed(store)
	store.feed = feed

	ch, err := feed.Subscribe(ctx, "u1")
	require.NoError(t, err)

	first := receive(t, ch)
	assert.Equal(t, 4, first["2025-03-10"].StudyMinutes)
}

func TestFeed_SubscribeFailureDetaches(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	feed := repository.NewFeed(sqlite.NewStore(sqlDB))
	testutil.MustClose(t, sqlDB)

	_, err := feed.Subscribe(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 0, feed.Subscribers("u1"))
}
