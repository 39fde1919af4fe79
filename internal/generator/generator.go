// Package generator turns session parameters into a structured training
// session by prompting a language model and repairing its JSON answer.
package generator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/phenix/internal/models"
)

// Options configures a Generator.
type Options struct {
	// APIKey is checked before every call; the Model carries its own copy.
	APIKey string
	// ModelName is reported in errors, logs and metrics.
	ModelName string
	Logger    *slog.Logger
	Recorder  Recorder
}

// Generator produces sessions. It holds no per-call state and is safe for
// concurrent use as long as its Model is.
type Generator struct {
	model     Model
	apiKey    string
	modelName string
	log       *slog.Logger
	recorder  Recorder
}

// New creates a Generator backed by m.
func New(m Model, opts Options) *Generator {
	g := &Generator{
		model:     m,
		apiKey:    CleanCredential(opts.APIKey),
		modelName: opts.ModelName,
		log:       opts.Logger,
		recorder:  opts.Recorder,
	}
	if g.modelName == "" {
		g.modelName = DefaultModel
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	if g.recorder == nil {
		g.recorder = nopRecorder{}
	}
	return g
}

// ModelName returns the configured model name.
func (g *Generator) ModelName() string {
	return g.modelName
}

// CleanCredential drops quotes, semicolons and whitespace that commonly end
// up in pasted keys.
func CleanCredential(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ';', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, key)
}

// Generate builds the prompt for p, calls the model once and returns the
// normalized session. Every failure is an *Error.
func (g *Generator) Generate(ctx context.Context, p models.SessionParams) (models.SessionStructure, error) {
	start := time.Now()
	session, err := g.generate(ctx, p)
	duration := time.Since(start)
	g.recorder.ObserveGeneration(g.modelName, err, duration)

	if err != nil {
		g.log.Error("session generation failed",
			"model", g.modelName,
			"category", p.Category,
			"kind", KindOf(err).String(),
			"duration", duration,
			"error", err,
		)
		return models.SessionStructure{}, err
	}

	g.log.Info("session generated",
		"model", g.modelName,
		"category", p.Category,
		"exercises", len(session.MainPart),
		"duration", duration,
	)
	return session, nil
}

func (g *Generator) generate(ctx context.Context, p models.SessionParams) (models.SessionStructure, error) {
	if g.apiKey == "" {
		return models.SessionStructure{}, &Error{Kind: KindMissingCredential, Model: g.modelName}
	}

	text, err := g.model.GenerateJSON(ctx, buildRequest(p))
	if err != nil {
		return models.SessionStructure{}, &Error{Kind: classify(err), Model: g.modelName, Err: err}
	}

	session, err := parseSession(text)
	if err != nil {
		return models.SessionStructure{}, &Error{Kind: KindMalformedResponse, Model: g.modelName, Err: err}
	}
	return session, nil
}
