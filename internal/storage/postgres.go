package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/phenix/internal/config"
)

// postgresMaxConns bounds the pool. The log takes at most one write per
// settled generation plus the occasional listing.
const postgresMaxConns = 4

// PostgresStore is the attempt log for shared server deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres brings the generation_attempts schema up to date, then
// connects. The returned store owns its pool until Close.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	if err := MigratePostgres(cfg); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing attempt log dsn: %w", err)
	}
	poolCfg.MaxConns = postgresMaxConns
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "phenix"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting attempt log: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reaching attempt log at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &PostgresStore{pool: pool}, nil
}

// MigratePostgres applies the pending attempt-log migrations found under
// cfg.MigrationsPath. An up-to-date schema is not an error.
func MigratePostgres(cfg config.DatabaseConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DSN())
	if err != nil {
		return fmt.Errorf("loading attempt log migrations from %s: %w", cfg.MigrationsPath, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating attempt log: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
