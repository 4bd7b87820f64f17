package cleanup

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// MockCleanupService is a mock implementation of CleanupService
type MockCleanupService struct {
	mock.Mock
}

// NewMockCleanupService creates a new MockCleanupService
func NewMockCleanupService() *MockCleanupService {
	return &MockCleanupService{}
}

func (m *MockCleanupService) SweepDatabase(ctx context.Context, now time.Time) []domain.SweepResult {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.SweepResult)
}

func (m *MockCleanupService) SweepStorage(ctx context.Context, now time.Time) []domain.SweepResult {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.SweepResult)
}

func (m *MockCleanupService) Sweep(ctx context.Context, now time.Time) []domain.SweepResult {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.SweepResult)
}
