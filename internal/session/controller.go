// Package session holds the single current generation result and enforces
// that only one generation runs at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/phenix/internal/generator"
	"github.com/claude/phenix/internal/models"
)

// ErrBusy is returned by Submit while a generation is in flight.
var ErrBusy = errors.New("a session is already being generated")

var errGenerationAborted = errors.New("generation aborted")

// State is the lifecycle position of the controller.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Generator produces a session from parameters.
type Generator interface {
	Generate(ctx context.Context, p models.SessionParams) (models.SessionStructure, error)
}

// AttemptRecorder stores attempts. Failures are logged and otherwise ignored.
type AttemptRecorder interface {
	InsertAttempt(ctx context.Context, a models.Attempt) error
}

// FailureInfo is the error exposed to the form.
type FailureInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State   State                    `json:"state"`
	Busy    bool                     `json:"busy"`
	Session *models.GeneratedSession `json:"session,omitempty"`
	Error   *FailureInfo             `json:"error,omitempty"`
}

// Controller owns the last GeneratedSession or the last error, never both.
type Controller struct {
	gen       Generator
	modelName string
	attempts  AttemptRecorder
	log       *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	state   State
	session *models.GeneratedSession
	failure *FailureInfo
}

// NewController creates an idle controller. attempts may be nil.
func NewController(gen Generator, modelName string, attempts AttemptRecorder, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gen:       gen,
		modelName: modelName,
		attempts:  attempts,
		log:       logger,
		now:       time.Now,
		state:     StateIdle,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:   c.state,
		Busy:    c.state == StateGenerating,
		Session: c.session,
		Error:   c.failure,
	}
}

// Busy reports whether a generation is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateGenerating
}

// Submit validates p, runs one generation and settles the slot. It returns
// ErrBusy without touching state when a generation is already running, and a
// wrapped models.ErrInvalidParams when p is rejected. Cancelling ctx does not
// abort the model call.
func (c *Controller) Submit(ctx context.Context, p models.SessionParams) (*models.GeneratedSession, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state == StateGenerating {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = StateGenerating
	c.session = nil
	c.failure = nil
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	returned := false
	defer func() {
		// A panicking generator must not leave the slot busy.
		if !returned {
			c.settle(p, models.SessionStructure{}, errGenerationAborted)
		}
	}()

	start := c.now()
	data, err := c.gen.Generate(ctx, p)
	returned = true
	duration := c.now().Sub(start)

	result := c.settle(p, data, err)
	c.record(ctx, p, err, duration)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Controller) settle(p models.SessionParams, data models.SessionStructure, err error) *models.GeneratedSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		c.failure = &FailureInfo{
			Kind:    generator.KindOf(err).String(),
			Message: generator.UserMessage(err),
		}
		return nil
	}
	c.session = &models.GeneratedSession{
		ID:        uuid.New(),
		Data:      data,
		Params:    p,
		CreatedAt: c.now().UTC(),
	}
	c.state = StateSucceeded
	return c.session
}

func (c *Controller) record(ctx context.Context, p models.SessionParams, genErr error, duration time.Duration) {
	if c.attempts == nil {
		return
	}
	a := models.Attempt{
		ID:         uuid.New(),
		Category:   p.Category,
		FocusMode:  string(p.FocusMode),
		Focus:      p.FocusText(),
		Model:      c.modelName,
		Status:     models.AttemptSuccess,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  c.now().UTC(),
	}
	if genErr != nil {
		a.Status = models.AttemptError
		a.ErrorKind = generator.KindOf(genErr).String()
	}
	if err := c.attempts.InsertAttempt(ctx, a); err != nil {
		c.log.Warn("recording generation attempt", "error", fmt.Errorf("inserting attempt %s: %w", a.ID, err))
	}
}
