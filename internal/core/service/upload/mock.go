package upload

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) PlanUploads(ctx context.Context, ownerID string, batch domain.UploadBatchRequest) ([]domain.UploadResult, error) {
	args := m.Called(ctx, ownerID, batch)
	return args.Get(0).([]domain.UploadResult), args.Error(1)
}

func (m *MockUploadService) ConfirmUpload(ctx context.Context, id uuid.UUID, uploadID string, parts []domain.CompletedPart) error {
	args := m.Called(ctx, id, uploadID, parts)
	return args.Error(0)
}

func (m *MockUploadService) CancelUpload(ctx context.Context, id uuid.UUID, uploadID string) error {
	args := m.Called(ctx, id, uploadID)
	return args.Error(0)
}

func (m *MockUploadService) GetFile(ctx context.Context, id uuid.UUID) (string, string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockUploadService) DeleteFile(ctx context.Context, id uuid.UUID, user domain.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}
