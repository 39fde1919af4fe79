package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/phenix/internal/config"
	"github.com/claude/phenix/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "attempts.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sameAttempt(a, b models.Attempt) bool {
	at, bt := a.CreatedAt, b.CreatedAt
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	return a == b && at.Equal(bt)
}

// TestSQLiteAttemptRoundTrip verifies that attempts come back intact, newest first.
func TestSQLiteAttemptRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	first := models.Attempt{
		ID: uuid.New(), Category: "U12", FocusMode: "dominance", Focus: "Vitesse",
		Model: "gemini-2.0-flash", Status: models.AttemptSuccess, DurationMS: 8200,
		CreatedAt: base,
	}
	second := models.Attempt{
		ID: uuid.New(), Category: "Senior", FocusMode: "problem", Focus: "Manque de jus",
		Model: "gemini-2.0-flash", Status: models.AttemptError, ErrorKind: "rate_limited",
		DurationMS: 350, CreatedAt: base.Add(500 * time.Millisecond),
	}
	for _, a := range []models.Attempt{first, second} {
		if err := s.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("InsertAttempt: %v", err)
		}
	}

	got, err := s.QueryAttempts(ctx, 0)
	if err != nil {
		t.Fatalf("QueryAttempts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d attempts, want 2", len(got))
	}
	if !sameAttempt(got[0], second) {
		t.Errorf("newest attempt = %+v, want %+v", got[0], second)
	}
	if !sameAttempt(got[1], first) {
		t.Errorf("oldest attempt = %+v, want %+v", got[1], first)
	}
}

// TestSQLiteAttemptLimit verifies that the limit caps the result.
func TestSQLiteAttemptLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := range 5 {
		a := models.Attempt{
			ID: uuid.New(), Category: "U15", FocusMode: "dominance", Model: "m",
			Status: models.AttemptSuccess, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.InsertAttempt(ctx, a); err != nil {
			t.Fatalf("InsertAttempt: %v", err)
		}
	}

	got, err := s.QueryAttempts(ctx, 3)
	if err != nil {
		t.Fatalf("QueryAttempts: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d attempts, want 3", len(got))
	}
	if !got[0].CreatedAt.Equal(base.Add(4 * time.Second)) {
		t.Errorf("first attempt at %v, want newest %v", got[0].CreatedAt, base.Add(4*time.Second))
	}
}

// TestOpenDisabled verifies that no store is opened without a driver.
func TestOpenDisabled(t *testing.T) {
	log, err := Open(context.Background(), config.DatabaseConfig{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if log != nil {
		t.Errorf("Open() = %v, want nil", log)
	}
}

// TestOpenSQLite verifies driver selection.
func TestOpenSQLite(t *testing.T) {
	log, err := Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "a.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()
	if _, ok := log.(*SQLiteStore); !ok {
		t.Errorf("Open() returned %T, want *SQLiteStore", log)
	}
}

// TestOpenPostgresMissingMigrations verifies that a bad migrations path fails
// before any connection is attempted.
func TestOpenPostgresMissingMigrations(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:         config.DriverPostgres,
		Host:           "127.0.0.1",
		Port:           1,
		Name:           "phenix",
		User:           "phenix",
		MigrationsPath: filepath.Join(t.TempDir(), "missing"),
	}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing migrations directory")
	}
}
