package models

import (
	"time"

	"github.com/google/uuid"
)

// Attempt statuses.
const (
	AttemptSuccess = "success"
	AttemptError   = "error"
)

// Attempt is the diagnostics record of one settled generation. It never
// carries the generated content.
type Attempt struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	FocusMode  string    `json:"focusMode"`
	Focus      string    `json:"focus"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	DurationMS int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}
