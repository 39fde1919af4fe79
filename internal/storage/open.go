package storage

import (
	"context"
	"fmt"

	"github.com/claude/phenix/internal/config"
)

// Open returns the attempt log selected by cfg, or nil when none is
// configured.
func Open(ctx context.Context, cfg config.DatabaseConfig) (AttemptLog, error) {
	switch cfg.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverSQLite:
		store, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
