package models

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidParams is wrapped by every SessionParams validation failure.
var ErrInvalidParams = errors.New("invalid session parameters")

// FocusMode selects between a named physical quality and a described deficiency.
type FocusMode string

const (
	FocusDominance FocusMode = "dominance"
	FocusProblem   FocusMode = "problem"
)

// Form option sets, in display order.
var (
	Categories   = []string{"U9", "U10", "U11", "U12", "U13", "U14", "U15", "U16", "U17", "Senior"}
	Genders      = []string{"M", "F"}
	Levels       = []string{"Élite", "D1", "D2", "D3"}
	CycleMoments = []string{"Avant-saison", "Saison", "Régénération"}
)

const (
	MinPlayers         = 6
	MaxPlayers         = 30
	MaxSessionsPerWeek = 7

	DefaultReferences = "Une saison de préparation physique en football, De l'entraînement à la performance, FIFA 11+"
)

// SessionParams is what the coach fills in before asking for a session.
type SessionParams struct {
	Category           string    `json:"category"`
	Gender             string    `json:"gender"`
	Level              string    `json:"level"`
	FocusMode          FocusMode `json:"focusMode"`
	Dominance          string    `json:"dominance"`
	ProblemDescription string    `json:"problemDescription,omitempty"`
	CycleMoment        string    `json:"cycleMoment"`
	PlayerCount        int       `json:"playerCount"`
	References         string    `json:"references,omitempty"`
	SessionsPerWeek    int       `json:"sessionsPerWeek"`
	SessionNumber      int       `json:"sessionNumber"`
}

// DefaultParams returns the values the form opens with.
func DefaultParams() SessionParams {
	return SessionParams{
		Category:        "Senior",
		Gender:          "M",
		Level:           "D1",
		FocusMode:       FocusDominance,
		Dominance:       "Endurance Puissance",
		CycleMoment:     "Saison",
		PlayerCount:     18,
		References:      DefaultReferences,
		SessionsPerWeek: 2,
		SessionNumber:   1,
	}
}

// SetSessionsPerWeek updates the weekly frequency and pulls SessionNumber
// back under it.
func (p *SessionParams) SetSessionsPerWeek(n int) {
	p.SessionsPerWeek = max(1, min(n, MaxSessionsPerWeek))
	if p.SessionNumber > p.SessionsPerWeek {
		p.SessionNumber = p.SessionsPerWeek
	}
}

// SetSessionNumber clamps n into [1, SessionsPerWeek].
func (p *SessionParams) SetSessionNumber(n int) {
	p.SessionNumber = max(1, min(n, p.SessionsPerWeek))
}

// SetPlayerCount clamps n into the supported squad range.
func (p *SessionParams) SetPlayerCount(n int) {
	p.PlayerCount = max(MinPlayers, min(n, MaxPlayers))
}

// FocusText is the objective sent to the model: the quality label, or the
// free-text problem in problem mode.
func (p SessionParams) FocusText() string {
	if p.FocusMode == FocusProblem {
		return p.ProblemDescription
	}
	return p.Dominance
}

// SessionType is the human label of the focus mode.
func (p SessionParams) SessionType() string {
	if p.FocusMode == FocusProblem {
		return "Correction Problème"
	}
	return "Développement Qualité"
}

// Validate checks every field against its option set or range.
func (p SessionParams) Validate() error {
	switch {
	case !slices.Contains(Categories, p.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidParams, p.Category)
	case !slices.Contains(Genders, p.Gender):
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidParams, p.Gender)
	case !slices.Contains(Levels, p.Level):
		return fmt.Errorf("%w: unknown level %q", ErrInvalidParams, p.Level)
	case !slices.Contains(CycleMoments, p.CycleMoment):
		return fmt.Errorf("%w: unknown cycle moment %q", ErrInvalidParams, p.CycleMoment)
	case p.PlayerCount < MinPlayers || p.PlayerCount > MaxPlayers:
		return fmt.Errorf("%w: playerCount %d outside %d-%d", ErrInvalidParams, p.PlayerCount, MinPlayers, MaxPlayers)
	case p.SessionsPerWeek < 1 || p.SessionsPerWeek > MaxSessionsPerWeek:
		return fmt.Errorf("%w: sessionsPerWeek %d outside 1-%d", ErrInvalidParams, p.SessionsPerWeek, MaxSessionsPerWeek)
	case p.SessionNumber < 1 || p.SessionNumber > p.SessionsPerWeek:
		return fmt.Errorf("%w: sessionNumber %d outside 1-%d", ErrInvalidParams, p.SessionNumber, p.SessionsPerWeek)
	}

	switch p.FocusMode {
	case FocusDominance:
		if !slices.Contains(Qualities, p.Dominance) {
			return fmt.Errorf("%w: unknown dominance %q", ErrInvalidParams, p.Dominance)
		}
	case FocusProblem:
		if p.ProblemDescription == "" {
			return fmt.Errorf("%w: problemDescription is required in problem mode", ErrInvalidParams)
		}
	default:
		return fmt.Errorf("%w: unknown focusMode %q", ErrInvalidParams, p.FocusMode)
	}
	return nil
}
