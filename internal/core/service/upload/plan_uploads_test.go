package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/christran/create-2block-app-sub000/internal/adapters/repository"
	"github.com/christran/create-2block-app-sub000/internal/adapters/storage"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

var imageTypes = map[string][]string{"image/jpeg": {".jpg", ".jpeg"}}

func newTestService(sessions *repository.MockSessionRepository, objects *storage.MockStorage) *uploadService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUploadService(sessions, objects, testUploadConfig(), logger).(*uploadService)
}

func TestPlanUploads(t *testing.T) {
	t.Run("should plan a small file as a single presigned put", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		objects.On("GeneratePresignedPutURL", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", int64(100<<20), imageTypes).
			Return("https://storage.example.com/put", nil)
		sessions.On("Create", mock.Anything, mock.MatchedBy(func(s domain.UploadSession) bool {
			return s.OwnerID == "user-1" && !s.UploadCompleted && s.OriginalFilename == "photo.jpg"
		})).Return(nil)

		batch := domain.UploadBatchRequest{
			Files:            []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "photo.jpg", ContentType: "image/jpeg", FileSize: 10 << 20}},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      100 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)

		plan := results[0].Plan
		require.NotNil(t, plan)
		assert.False(t, plan.Multipart)
		assert.Equal(t, "https://storage.example.com/put", plan.URL)
		assert.Empty(t, plan.UploadID)
		assert.Empty(t, plan.PresignedURLs)
		assert.NotEqual(t, "", plan.SessionID.String())

		sessions.AssertExpectations(t)
		objects.AssertExpectations(t)
		objects.AssertNotCalled(t, "CreateMultipartUpload")
	})

	t.Run("should plan a large file as multipart with ordered part urls", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		partURLs := []string{"https://p/1", "https://p/2", "https://p/3", "https://p/4", "https://p/5", "https://p/6"}
		objects.On("CreateMultipartUpload", mock.Anything, mock.AnythingOfType("string"), "image/jpeg").
			Return("mp-1", nil)
		objects.On("PresignUploadParts", mock.Anything, mock.AnythingOfType("string"), "mp-1", 6).
			Return(partURLs, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

		batch := domain.UploadBatchRequest{
			Files:            []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "big.jpg", ContentType: "image/jpeg", FileSize: 600 << 20}},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      1000 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)

		plan := results[0].Plan
		assert.True(t, plan.Multipart)
		assert.Equal(t, "mp-1", plan.UploadID)
		assert.Equal(t, partURLs, plan.PresignedURLs)
		assert.Equal(t, int64(100<<20), plan.ChunkSize)

		objects.AssertExpectations(t)
	})

	t.Run("should reject a disallowed content type without touching storage or the registry", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		batch := domain.UploadBatchRequest{
			Files:            []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "run.exe", ContentType: "application/octet-stream", FileSize: 1 << 20}},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      100 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, domain.ErrInvalidFileType)
		assert.Nil(t, results[0].Plan)

		sessions.AssertNotCalled(t, "Create")
		objects.AssertNotCalled(t, "CreateMultipartUpload")
		objects.AssertNotCalled(t, "GeneratePresignedPutURL")
	})

	t.Run("should reject a file over the caller limit and over the server ceiling", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		batch := domain.UploadBatchRequest{
			Files: []domain.FileUploadRequest{
				{Prefix: "uploads/", Filename: "over-caller.jpg", ContentType: "image/jpeg", FileSize: 200 << 20},
				{Prefix: "uploads/", Filename: "over-server.jpg", ContentType: "image/jpeg", FileSize: 2000 << 20},
			},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      100 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.ErrorIs(t, results[0].Err, domain.ErrFileTooLarge)
		assert.ErrorIs(t, results[1].Err, domain.ErrFileTooLarge)
	})

	t.Run("should report one bad file inline without aborting the batch", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		objects.On("GeneratePresignedPutURL", mock.Anything, mock.Anything, "image/jpeg", mock.Anything, mock.Anything).
			Return("https://storage.example.com/put", nil).Twice()
		sessions.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

		batch := domain.UploadBatchRequest{
			Files: []domain.FileUploadRequest{
				{Prefix: "uploads/", Filename: "first.jpg", ContentType: "image/jpeg", FileSize: 1 << 20},
				{Prefix: "uploads/", Filename: "virus.exe", ContentType: "application/octet-stream", FileSize: 1 << 20},
				{Prefix: "uploads/", Filename: "third.jpg", ContentType: "image/jpeg", FileSize: 1 << 20},
			},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      100 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.NoError(t, results[0].Err)
		assert.ErrorIs(t, results[1].Err, domain.ErrInvalidFileType)
		assert.NoError(t, results[2].Err)

		sessions.AssertExpectations(t)
	})

	t.Run("should reject an empty batch", func(t *testing.T) {
		// Arrange
		service := newTestService(repository.NewMockSessionRepository(), storage.NewMockStorage())

		// Act
		_, err := service.PlanUploads(context.Background(), "user-1", domain.UploadBatchRequest{AllowedFileTypes: imageTypes})

		// Assert
		assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	})

	t.Run("should reject a batch over the file-count limit", func(t *testing.T) {
		// Arrange
		service := newTestService(repository.NewMockSessionRepository(), storage.NewMockStorage())

		batch := domain.UploadBatchRequest{AllowedFileTypes: imageTypes, MaxFileSize: 100 << 20}
		for i := 0; i < 26; i++ {
			batch.Files = append(batch.Files, domain.FileUploadRequest{Prefix: "uploads/", Filename: "a.jpg", ContentType: "image/jpeg", FileSize: 1})
		}

		// Act
		_, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
	})

	t.Run("should reject a batch without an allow-list", func(t *testing.T) {
		// Arrange
		service := newTestService(repository.NewMockSessionRepository(), storage.NewMockStorage())

		batch := domain.UploadBatchRequest{
			Files: []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "a.jpg", ContentType: "image/jpeg", FileSize: 1}},
		}

		// Act
		_, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		assert.Error(t, err)
	})

	t.Run("should abort the multipart upload when persisting the session fails", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		objects.On("CreateMultipartUpload", mock.Anything, mock.Anything, "image/jpeg").Return("mp-1", nil)
		objects.On("PresignUploadParts", mock.Anything, mock.Anything, "mp-1", 6).
			Return([]string{"u1", "u2", "u3", "u4", "u5", "u6"}, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Return(errors.New("database down"))
		objects.On("AbortMultipartUpload", mock.Anything, mock.Anything, "mp-1").Return(nil)

		batch := domain.UploadBatchRequest{
			Files:            []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "big.jpg", ContentType: "image/jpeg", FileSize: 600 << 20}},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      1000 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)

		objects.AssertCalled(t, "AbortMultipartUpload", mock.Anything, mock.Anything, "mp-1")
	})

	t.Run("should abort the multipart upload when presigning parts fails", func(t *testing.T) {
		// Arrange
		sessions := repository.NewMockSessionRepository()
		objects := storage.NewMockStorage()
		service := newTestService(sessions, objects)

		objects.On("CreateMultipartUpload", mock.Anything, mock.Anything, "image/jpeg").Return("mp-2", nil)
		objects.On("PresignUploadParts", mock.Anything, mock.Anything, "mp-2", 6).
			Return([]string(nil), errors.New("provider throttled"))
		objects.On("AbortMultipartUpload", mock.Anything, mock.Anything, "mp-2").Return(nil)

		batch := domain.UploadBatchRequest{
			Files:            []domain.FileUploadRequest{{Prefix: "uploads/", Filename: "big.jpg", ContentType: "image/jpeg", FileSize: 600 << 20}},
			AllowedFileTypes: imageTypes,
			MaxFileSize:      1000 << 20,
		}

		// Act
		results, err := service.PlanUploads(context.Background(), "user-1", batch)

		// Assert
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)

		sessions.AssertNotCalled(t, "Create")
		objects.AssertCalled(t, "AbortMultipartUpload", mock.Anything, mock.Anything, "mp-2")
	})
}
