// Package cli implements the phenix-plan commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/phenix/internal/config"
	"github.com/claude/phenix/internal/generator"
	phenixmcp "github.com/claude/phenix/internal/mcp"
	"github.com/claude/phenix/internal/session"
	"github.com/claude/phenix/internal/storage"
)

type Context struct {
	Config  *config.Config
	Log     *slog.Logger
	Out     io.Writer
	Version string

	// backend replaces the planner built from Config when set.
	backend phenixmcp.Backend
}

// Backend returns the planner commands talk to: a remote Phenix server when
// serverURL is set, otherwise an in-process controller using the Gemini
// settings and attempt log from Config. The returned func releases it.
func (c *Context) Backend(ctx context.Context, serverURL, apiKey string) (phenixmcp.Backend, func(), error) {
	if c.backend != nil {
		return c.backend, func() {}, nil
	}
	if serverURL != "" {
		return phenixmcp.NewHTTPClient(serverURL, apiKey), func() {}, nil
	}

	attempts, err := storage.Open(ctx, c.Config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening attempt log: %w", err)
	}
	release := func() {
		if attempts == nil {
			return
		}
		if err := attempts.Close(); err != nil {
			c.Log.Warn("closing attempt log", "error", err)
		}
	}

	gem := c.Config.Gemini
	gen := generator.New(generator.NewGeminiModel(gem.APIKey, gem.Model, gem.BaseURL), generator.Options{
		APIKey:    gem.APIKey,
		ModelName: gem.Model,
		Logger:    c.Log,
	})

	var recorder session.AttemptRecorder
	if attempts != nil {
		recorder = attempts
	}
	ctrl := session.NewController(gen, gen.ModelName(), recorder, c.Log)
	return phenixmcp.NewLocalBackend(ctrl), release, nil
}
