package mcp

import (
	"context"

	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
	"github.com/claude/phenix/internal/session"
)

// Backend abstracts the planner for MCP tools. LocalBackend (in-process
// controller) and HTTPClient (remote via REST API) satisfy this interface.
type Backend interface {
	Options(ctx context.Context) (models.FormOptions, error)
	Priorities(ctx context.Context, category string, mode models.FocusMode, dominance string) (models.PriorityAdvice, error)
	Qualities(ctx context.Context) ([]priority.QualityDefinition, error)
	GenerateSession(ctx context.Context, p models.SessionParams) (*models.GeneratedSession, error)
	CurrentSession(ctx context.Context) (session.Snapshot, error)
}

// LocalBackend serves tools from an in-process session controller.
type LocalBackend struct {
	sessions *session.Controller
}

// Compile-time check: LocalBackend satisfies Backend.
var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend wraps a controller.
func NewLocalBackend(sessions *session.Controller) *LocalBackend {
	return &LocalBackend{sessions: sessions}
}

func (b *LocalBackend) Options(context.Context) (models.FormOptions, error) {
	return models.Options(), nil
}

func (b *LocalBackend) Priorities(_ context.Context, category string, mode models.FocusMode, dominance string) (models.PriorityAdvice, error) {
	return priority.Advise(category, mode, dominance), nil
}

func (b *LocalBackend) Qualities(context.Context) ([]priority.QualityDefinition, error) {
	return priority.Definitions(), nil
}

func (b *LocalBackend) GenerateSession(ctx context.Context, p models.SessionParams) (*models.GeneratedSession, error) {
	return b.sessions.Submit(ctx, p)
}

func (b *LocalBackend) CurrentSession(context.Context) (session.Snapshot, error) {
	return b.sessions.Snapshot(), nil
}
