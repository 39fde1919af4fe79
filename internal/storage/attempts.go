package storage

import (
	"context"
	"fmt"

	"github.com/claude/phenix/internal/models"
)

// DefaultAttemptLimit caps QueryAttempts when no limit is given.
const DefaultAttemptLimit = 50

// AttemptLog is implemented by both backends.
type AttemptLog interface {
	InsertAttempt(ctx context.Context, a models.Attempt) error
	QueryAttempts(ctx context.Context, limit int) ([]models.Attempt, error)
	Close() error
}

var (
	_ AttemptLog = (*PostgresStore)(nil)
	_ AttemptLog = (*SQLiteStore)(nil)
)

// InsertAttempt records one settled generation.
func (s *PostgresStore) InsertAttempt(ctx context.Context, a models.Attempt) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO generation_attempts (id, created_at, category, focus_mode, focus, model,
		 status, error_kind, duration_ms)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.CreatedAt, a.Category, a.FocusMode, a.Focus, a.Model,
		a.Status, a.ErrorKind, a.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// QueryAttempts returns the most recent attempts, newest first.
func (s *PostgresStore) QueryAttempts(ctx context.Context, limit int) ([]models.Attempt, error) {
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, category, focus_mode, focus, model, status, error_kind, duration_ms
		 FROM generation_attempts
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var result []models.Attempt
	for rows.Next() {
		var a models.Attempt
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.Category, &a.FocusMode, &a.Focus,
			&a.Model, &a.Status, &a.ErrorKind, &a.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
