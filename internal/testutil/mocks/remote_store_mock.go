package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/dailyenglish/internal/models"
)

// MockRemoteStore is a mock implementation of repository.RemoteStore
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) ListDayLogs(ctx context.Context, uid string) (models.LogsMap, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.LogsMap), args.Error(1)
}

func (m *MockRemoteStore) SaveDayLog(ctx context.Context, uid, dateKey string, log models.DailyLog) error {
	args := m.Called(ctx, uid, dateKey, log)
	return args.Error(0)
}

func (m *MockRemoteStore) UpsertSummary(ctx context.Context, s models.StudentSummary) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRemoteStore) TouchLogin(ctx context.Context, id models.Identity, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRemoteStore) GetSummary(ctx context.Context, uid string) (*models.StudentSummary, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentSummary), args.Error(1)
}

func (m *MockRemoteStore) ListSummaries(ctx context.Context) ([]models.StudentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudentSummary), args.Error(1)
}

func (m *MockRemoteStore) Subscribe(ctx context.Context, uid string) (<-chan models.LogsMap, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan models.LogsMap), args.Error(1)
}
