package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockLocalCache is a mock implementation of repository.LocalCache
type MockLocalCache struct {
	mock.Mock
}

func (m *MockLocalCache) ReadLogs() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLocalCache) WriteLogs(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}
