package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/engine"
	"github.com/vytor/dailyenglish/internal/errors"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/services"
	"github.com/vytor/dailyenglish/internal/testutil"
	"github.com/vytor/dailyenglish/internal/testutil/mocks"
)

func seededTracker(id *models.Identity) *engine.Tracker {
	tr := engine.NewTracker(engine.Options{
		Identity: id,
		Clock:    testutil.ClockAt(2025, time.March, 10, 9, 0),
	})
	tr.MergeRemote(context.Background(), models.LogsMap{
		"2025-02-28": {TotalMoney: 40, DailyCoins: 5, StudyMinutes: 10},
		"2025-03-01": {TotalMoney: 20, DailyCoins: 10, DailyGems: 3, StudyMinutes: 15,
			VocabDone: true, Vocab1Word: "house", Vocab1Meaning: "nhà", Vocab2Word: "car", Vocab2Meaning: "xe"},
		"2025-03-02": {TotalMoney: 40},
	})
	return tr
}

func TestProgressService_MonthViews(t *testing.T) {
	ctx := context.Background()
	svc := services.NewProgressService(nil, testutil.ClockAt(2025, time.March, 10, 9, 0), nil)
	tr := seededTracker(nil)

	logs := svc.MonthLogs(ctx, tr, 2025, time.March)
	assert.Len(t, logs, 2)
	assert.NotContains(t, logs, "2025-02-28")

	totals := svc.MonthlyStats(ctx, tr, 2025, time.March)
	assert.Equal(t, 60, totals.TotalEarned)
	assert.Equal(t, 6, totals.CurrentScore)
	assert.Equal(t, 124, totals.MaxScore)
	assert.Equal(t, 15, totals.TotalCoins, "coins are lifetime")

	weeks := svc.Weeks(ctx, tr, 2025, time.March)
	require.NotEmpty(t, weeks)
	// March 2025 starts on a Saturday; the first row holds the 1st and 2nd.
	assert.False(t, weeks[0].Complete)
	assert.Equal(t, "2025-03-01", weeks[0].Days[5])

	review := svc.VocabReview(ctx, tr, 2025, time.March)
	require.Len(t, review, 4)
	assert.Len(t, review[0].Entries, 2)
}

func TestProgressService_VocabSample(t *testing.T) {
	ctx := context.Background()
	svc := services.NewProgressService(nil, nil, nil)
	tr := seededTracker(nil)

	words, err := svc.VocabSample(ctx, tr, "", 0)
	require.NoError(t, err)
	assert.Len(t, words, 30)
	assert.Equal(t, "HOUSE", words[0].Word)

	_, err = svc.VocabSample(ctx, tr, "not-a-date", 5)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestProgressService_Summary(t *testing.T) {
	ctx := context.Background()
	login := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	store := new(mocks.MockRemoteStore)
	store.On("GetSummary", ctx, "u1").Return(&models.StudentSummary{UID: "u1", LastLogin: &login}, nil)

	svc := services.NewProgressService(store, testutil.ClockAt(2025, time.March, 10, 9, 0), nil)
	tr := seededTracker(&models.Identity{UID: "u1", DisplayName: "Linh"})

	sum, err := svc.Summary(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, "Linh", sum.DisplayName)
	assert.Equal(t, 60, sum.CurrentMonthScore)
	assert.Equal(t, 40, sum.PrevMonthMoney)
	assert.Equal(t, 25, sum.TotalStudyMinutes)
	require.NotNil(t, sum.LastLogin)
	assert.True(t, login.Equal(*sum.LastLogin))
	store.AssertExpectations(t)
}

func TestProgressService_SummaryLocalOnly(t *testing.T) {
	store := new(mocks.MockRemoteStore)
	svc := services.NewProgressService(store, nil, nil)

	sum, err := svc.Summary(context.Background(), seededTracker(nil))
	require.NoError(t, err)
	assert.Equal(t, services.LocalUID, sum.UID)
	assert.Nil(t, sum.LastLogin)
	store.AssertNotCalled(t, "GetSummary")
}

func TestProgressService_Students(t *testing.T) {
	ctx := context.Background()

	list, err := services.NewProgressService(nil, nil, nil).Students(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	store := new(mocks.MockRemoteStore)
	store.On("ListSummaries", ctx).Return(nil, stderrors.New("db down")).Once()
	_, err = services.NewProgressService(store, nil, nil).Students(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))

	store.On("ListSummaries", ctx).Return([]models.StudentSummary{{UID: "u1"}}, nil).Once()
	list, err = services.NewProgressService(store, nil, nil).Students(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
