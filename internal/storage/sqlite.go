package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/phenix/internal/models"
)

// sqliteTime is fixed-width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02 15:04:05.000000000"

// SQLiteStore is the attempt log for single-machine deployments and the CLI.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS generation_attempts (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		category    TEXT NOT NULL,
		focus_mode  TEXT NOT NULL,
		focus       TEXT NOT NULL DEFAULT '',
		model       TEXT NOT NULL,
		status      TEXT NOT NULL,
		error_kind  TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating attempts table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InsertAttempt records one settled generation.
func (s *SQLiteStore) InsertAttempt(ctx context.Context, a models.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_attempts (id, created_at, category, focus_mode, focus, model,
		 status, error_kind, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.CreatedAt.UTC().Format(sqliteTime), a.Category, a.FocusMode, a.Focus,
		a.Model, a.Status, a.ErrorKind, a.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// QueryAttempts returns the most recent attempts, newest first.
func (s *SQLiteStore) QueryAttempts(ctx context.Context, limit int) ([]models.Attempt, error) {
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, category, focus_mode, focus, model, status, error_kind, duration_ms
		 FROM generation_attempts
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var result []models.Attempt
	for rows.Next() {
		var (
			a         models.Attempt
			id        string
			createdAt string
		)
		if err := rows.Scan(&id, &createdAt, &a.Category, &a.FocusMode, &a.Focus,
			&a.Model, &a.Status, &a.ErrorKind, &a.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing attempt id %q: %w", id, err)
		}
		if a.CreatedAt, err = time.ParseInLocation(sqliteTime, createdAt, time.UTC); err != nil {
			return nil, fmt.Errorf("parsing attempt time %q: %w", createdAt, err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
