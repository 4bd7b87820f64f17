package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
	"github.com/christran/create-2block-app-sub000/internal/core/port"
)

type sqlSessionRepository struct {
	db SQLQuerier
}

// NewSQLSessionRepository creates a new sqlSessionRepository
func NewSQLSessionRepository(db SQLQuerier) port.SessionRepository {
	return &sqlSessionRepository{db: db}
}

// Create inserts one session row
func (s *sqlSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO files (
			id, storage_key, owner_id, original_filename, content_type, file_size, storage_provider, upload_completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.StorageKey,
		session.OwnerID,
		session.OriginalFilename,
		session.ContentType,
		session.FileSize,
		session.StorageProvider,
		session.UploadCompleted,
	)
	if err != nil {
		return fmt.Errorf("error inserting upload session: %w", err)
	}
	return nil
}

// FindByID finds a session by id
func (s *sqlSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `
		SELECT id, storage_key, owner_id, original_filename, content_type, file_size, storage_provider, upload_completed, created_at, updated_at
		FROM files
		WHERE id = $1`

	var row dbUploadSession
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.StorageKey,
		&row.OwnerID,
		&row.OriginalFilename,
		&row.ContentType,
		&row.FileSize,
		&row.StorageProvider,
		&row.UploadCompleted,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// MarkCompleted flips upload_completed on a still-incomplete row. Confirming
// a row that is already completed is a no-op; a missing row is an error.
func (s *sqlSessionRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE files SET upload_completed = true, updated_at = now() WHERE id = $1 AND upload_completed = false`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM files WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
	}

	return nil
}

// DeleteIfIncomplete deletes a row only while upload_completed is still false
func (s *sqlSessionRepository) DeleteIfIncomplete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM files WHERE id = $1 AND upload_completed = false`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// Delete removes a row regardless of completion state
func (s *sqlSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM files WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// FindStale lists incomplete sessions created before the given cutoff
func (s *sqlSessionRepository) FindStale(ctx context.Context, olderThan time.Time) ([]domain.UploadSession, error) {
	query := `
		SELECT id, storage_key, owner_id, original_filename, content_type, file_size, storage_provider, upload_completed, created_at, updated_at
		FROM files
		WHERE upload_completed = false AND created_at < $1`

	rows, err := s.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("error querying stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbUploadSession
		if err := rows.Scan(
			&row.ID,
			&row.StorageKey,
			&row.OwnerID,
			&row.OriginalFilename,
			&row.ContentType,
			&row.FileSize,
			&row.StorageProvider,
			&row.UploadCompleted,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning upload session: %w", err)
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type dbUploadSession struct {
	ID               uuid.UUID `db:"id"`
	StorageKey       string    `db:"storage_key"`
	OwnerID          string    `db:"owner_id"`
	OriginalFilename string    `db:"original_filename"`
	ContentType      string    `db:"content_type"`
	FileSize         int64     `db:"file_size"`
	StorageProvider  string    `db:"storage_provider"`
	UploadCompleted  bool      `db:"upload_completed"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:               s.ID,
		StorageKey:       s.StorageKey,
		OwnerID:          s.OwnerID,
		OriginalFilename: s.OriginalFilename,
		ContentType:      s.ContentType,
		FileSize:         s.FileSize,
		StorageProvider:  domain.StorageProvider(s.StorageProvider),
		UploadCompleted:  s.UploadCompleted,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
