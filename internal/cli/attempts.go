package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/phenix/internal/storage"
)

var errNoAttemptLog = errors.New("attempt log not configured (set database.driver)")

type AttemptsCmd struct {
	Limit int  `short:"n" help:"Number of attempts to show." default:"20"`
	JSON  bool `help:"Print JSON instead of a table."`
}

func (c *AttemptsCmd) Run(ctx *Context) error {
	bg := context.Background()
	log, err := storage.Open(bg, ctx.Config.Database)
	if err != nil {
		return fmt.Errorf("opening attempt log: %w", err)
	}
	if log == nil {
		return errNoAttemptLog
	}
	defer func() { _ = log.Close() }()

	attempts, err := log.QueryAttempts(bg, c.Limit)
	if err != nil {
		return fmt.Errorf("querying attempts: %w", err)
	}
	if c.JSON {
		return printJSON(ctx, attempts)
	}
	renderAttempts(ctx.Out, attempts)
	return nil
}
