package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/dailyenglish/internal/models"
)

// MockSyncQueue is a mock implementation of jobs.SyncQueue
type MockSyncQueue struct {
	mock.Mock
}

func (m *MockSyncQueue) EnqueueDayLog(uid, dateKey string, log models.DailyLog) error {
	args := m.Called(uid, dateKey, log)
	return args.Error(0)
}

func (m *MockSyncQueue) EnqueueSummary(summary models.StudentSummary) error {
	args := m.Called(summary)
	return args.Error(0)
}
