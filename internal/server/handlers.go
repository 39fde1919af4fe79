package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/phenix/internal/generator"
	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
	"github.com/claude/phenix/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, coachFromContext(r))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Options())
}

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category parameter required"})
		return
	}
	mode := models.FocusMode(q.Get("focusMode"))
	if mode != "" && mode != models.FocusDominance && mode != models.FocusProblem {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "focusMode must be dominance or problem"})
		return
	}
	writeJSON(w, http.StatusOK, priority.Advise(category, mode, q.Get("dominance")))
}

func (s *Server) handleQualities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, priority.Definitions())
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Snapshot())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	// Omitted fields keep their form defaults.
	params := models.DefaultParams()
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	coach := coachFromContext(r)
	s.log.Info("generating session",
		"coach", coach.Login,
		"category", params.Category,
		"focus_mode", params.FocusMode,
	)

	generated, err := s.sessions.Submit(r.Context(), params)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, generated)
	case errors.Is(err, models.ErrInvalidParams):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		kind := generator.KindOf(err)
		writeJSON(w, kind.HTTPStatus(), map[string]string{
			"error": generator.UserMessage(err),
			"kind":  kind.String(),
		})
	}
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	if s.attempts == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "attempt log not configured"})
		return
	}
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	attempts, err := s.attempts.QueryAttempts(r.Context(), limit)
	if err != nil {
		s.log.Error("querying attempts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	writeJSON(w, http.StatusOK, attempts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
