package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) GeneratePresignedPutURL(ctx context.Context, key string, contentType string, maxSize int64, allowedTypes map[string][]string) (string, error) {
	args := m.Called(ctx, key, contentType, maxSize, allowedTypes)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PresignUploadParts(ctx context.Context, key string, uploadID string, totalParts int) ([]string, error) {
	args := m.Called(ctx, key, uploadID, totalParts)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.CompletedPart) error {
	args := m.Called(ctx, key, uploadID, parts)
	return args.Error(0)
}

func (m *MockStorage) GeneratePresignedGetURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) ListIncompleteMultipartUploads(ctx context.Context) ([]domain.IncompleteUpload, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.IncompleteUpload), args.Error(1)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	args := m.Called(ctx, key, uploadID)
	return args.Error(0)
}
