package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/claude/phenix/internal/generator"
	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/session"
)

type stubGenerator struct {
	err     error
	started chan struct{}
	release chan struct{}
}

func (g *stubGenerator) Generate(_ context.Context, _ models.SessionParams) (models.SessionStructure, error) {
	if g.started != nil {
		close(g.started)
		<-g.release
	}
	if g.err != nil {
		return models.SessionStructure{}, g.err
	}
	return models.SessionStructure{
		Warmup:     models.Exercise{Title: "Rondo"},
		MainPart:   []models.Exercise{{Title: "Sprint"}},
		Conclusion: models.Exercise{Title: "Retour au calme"},
	}, nil
}

type memoryAttempts struct {
	attempts []models.Attempt
}

func (m *memoryAttempts) InsertAttempt(_ context.Context, a models.Attempt) error {
	m.attempts = append([]models.Attempt{a}, m.attempts...)
	return nil
}

func (m *memoryAttempts) QueryAttempts(_ context.Context, limit int) ([]models.Attempt, error) {
	if limit > 0 && limit < len(m.attempts) {
		return m.attempts[:limit], nil
	}
	return m.attempts, nil
}

func (m *memoryAttempts) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(gen session.Generator, apiKey string) (*Server, *memoryAttempts) {
	attempts := &memoryAttempts{}
	ctrl := session.NewController(gen, "gemini-test", attempts, quietLogger())
	return New(ctrl, attempts, apiKey, quietLogger()), attempts
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHandleOptions verifies the option sets the form is built from.
func TestHandleOptions(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	rec := do(t, s, http.MethodGet, "/api/v1/options", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	opts := decode[models.FormOptions](t, rec)
	if len(opts.Categories) != 10 {
		t.Errorf("categories = %d, want 10", len(opts.Categories))
	}
	if len(opts.Qualities) != 8 {
		t.Errorf("qualities = %d, want 8", len(opts.Qualities))
	}
	if opts.Defaults.Category != "Senior" {
		t.Errorf("default category = %q, want Senior", opts.Defaults.Category)
	}
}

// TestHandlePriorities verifies classification and dominance reconciliation.
func TestHandlePriorities(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	rec := do(t, s, http.MethodGet, "/api/v1/priorities?category=U12&focusMode=dominance&dominance=Force", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	advice := decode[models.PriorityAdvice](t, rec)
	if advice.Dominance != models.QualityCoordination {
		t.Errorf("dominance = %q, want %q", advice.Dominance, models.QualityCoordination)
	}
	if len(advice.Priority) != 4 {
		t.Errorf("priority = %v, want 4 labels", advice.Priority)
	}
}

// TestHandlePrioritiesValidation verifies query parameter checks.
func TestHandlePrioritiesValidation(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	for _, path := range []string{
		"/api/v1/priorities",
		"/api/v1/priorities?category=U12&focusMode=other",
	} {
		if rec := do(t, s, http.MethodGet, path, "", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

// TestHandleQualities verifies the definitions list.
func TestHandleQualities(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	rec := do(t, s, http.MethodGet, "/api/v1/qualities", "", nil)
	defs := decode[[]map[string]string](t, rec)
	if len(defs) != 8 {
		t.Fatalf("got %d definitions, want 8", len(defs))
	}
	if defs[0]["label"] != models.QualityVitesse || defs[0]["definition"] == "" {
		t.Errorf("first definition = %v", defs[0])
	}
}

// TestCreateSession verifies a successful generation and the snapshot that follows.
func TestCreateSession(t *testing.T) {
	s, attempts := newTestServer(&stubGenerator{}, "")
	rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{"category":"U14","dominance":"Souplesse"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	got := decode[models.GeneratedSession](t, rec)
	if got.Params.Category != "U14" {
		t.Errorf("category = %q, want U14", got.Params.Category)
	}
	if got.Params.PlayerCount != 18 {
		t.Errorf("playerCount = %d, want default 18", got.Params.PlayerCount)
	}
	if got.Data.Warmup.Title != "Rondo" {
		t.Errorf("warmup = %q, want Rondo", got.Data.Warmup.Title)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/current", "", nil)
	snap := decode[session.Snapshot](t, rec)
	if snap.State != session.StateSucceeded || snap.Session == nil || snap.Session.ID != got.ID {
		t.Errorf("snapshot = %+v, want succeeded with session %s", snap, got.ID)
	}

	if len(attempts.attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(attempts.attempts))
	}
}

// TestCreateSessionInvalid verifies that bad input never reaches the generator.
func TestCreateSessionInvalid(t *testing.T) {
	s, attempts := newTestServer(&stubGenerator{}, "")
	for _, body := range []string{`{"playerCount": 3}`, `{"category": "U99"}`, `not json`} {
		rec := do(t, s, http.MethodPost, "/api/v1/sessions", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(attempts.attempts) != 0 {
		t.Errorf("attempts = %d, want 0", len(attempts.attempts))
	}
}

// TestCreateSessionErrorKinds verifies status codes and bodies per failure kind.
func TestCreateSessionErrorKinds(t *testing.T) {
	tests := []struct {
		kind   generator.Kind
		status int
	}{
		{generator.KindRateLimited, http.StatusTooManyRequests},
		{generator.KindServiceUnavailable, http.StatusServiceUnavailable},
		{generator.KindMissingCredential, http.StatusServiceUnavailable},
		{generator.KindModelUnavailable, http.StatusBadGateway},
		{generator.KindMalformedResponse, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			genErr := &generator.Error{Kind: tt.kind, Model: "gemini-test", Err: errors.New("raw provider detail")}
			s, _ := newTestServer(&stubGenerator{err: genErr}, "")

			rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode[map[string]string](t, rec)
			if body["kind"] != tt.kind.String() {
				t.Errorf("kind = %q, want %q", body["kind"], tt.kind.String())
			}
			if body["error"] != genErr.UserMessage() {
				t.Errorf("error = %q, want %q", body["error"], genErr.UserMessage())
			}
		})
	}
}

// TestCreateSessionBusy verifies that a second submission gets 409.
func TestCreateSessionBusy(t *testing.T) {
	gen := &stubGenerator{started: make(chan struct{}), release: make(chan struct{})}
	s, _ := newTestServer(gen, "")

	done := make(chan int, 1)
	go func() {
		done <- do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, nil).Code
	}()
	<-gen.started

	if rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, nil); rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	snap := decode[session.Snapshot](t, do(t, s, http.MethodGet, "/api/v1/sessions/current", "", nil))
	if !snap.Busy {
		t.Error("snapshot should report busy")
	}

	close(gen.release)
	if code := <-done; code != http.StatusOK {
		t.Errorf("first submission status = %d, want 200", code)
	}
}

// TestCreateSessionRequiresAPIKey verifies that generation is gated when a key is set.
func TestCreateSessionRequiresAPIKey(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "secret")

	if rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, map[string]string{"X-API-Key": "nope"}); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, map[string]string{"X-API-Key": "secret"}); rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", rec.Code)
	}
	// Reads stay open.
	if rec := do(t, s, http.MethodGet, "/api/v1/options", "", nil); rec.Code != http.StatusOK {
		t.Errorf("options: status = %d, want 200", rec.Code)
	}
}

// TestHandleAttempts verifies the attempt log listing.
func TestHandleAttempts(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	do(t, s, http.MethodPost, "/api/v1/sessions", `{}`, nil)
	do(t, s, http.MethodPost, "/api/v1/sessions", `{"category":"U10","dominance":"Vitesse"}`, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/attempts?limit=1", "", nil)
	got := decode[[]models.Attempt](t, rec)
	if len(got) != 1 {
		t.Fatalf("got %d attempts, want 1", len(got))
	}
	if got[0].Category != "U10" {
		t.Errorf("newest attempt category = %q, want U10", got[0].Category)
	}
}

// TestHandleAttemptsDisabled verifies the response without an attempt log.
func TestHandleAttemptsDisabled(t *testing.T) {
	ctrl := session.NewController(&stubGenerator{}, "m", nil, quietLogger())
	s := New(ctrl, nil, "", quietLogger())
	if rec := do(t, s, http.MethodGet, "/api/v1/attempts", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestHandleMeDefault verifies the local coach identity outside a tailnet.
func TestHandleMeDefault(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	coach := decode[Coach](t, do(t, s, http.MethodGet, "/api/v1/me", "", nil))
	if coach.Login != "local" {
		t.Errorf("login = %q, want %q", coach.Login, "local")
	}
}

// TestHealthz verifies the liveness probe.
func TestHealthz(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	if rec := do(t, s, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestSetFrontend verifies that unknown paths fall back to index.html.
func TestSetFrontend(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	s.SetFrontend(fstest.MapFS{
		"index.html": {Data: []byte("<html>phenix</html>")},
		"app.js":     {Data: []byte("console.log(1)")},
	})

	if rec := do(t, s, http.MethodGet, "/app.js", "", nil); !strings.Contains(rec.Body.String(), "console.log") {
		t.Errorf("app.js body = %q", rec.Body.String())
	}
	if rec := do(t, s, http.MethodGet, "/seance/42", "", nil); !strings.Contains(rec.Body.String(), "phenix") {
		t.Errorf("fallback body = %q", rec.Body.String())
	}
}

// TestSetMetrics verifies that the metrics handler is mounted.
func TestSetMetrics(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	s.SetMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("phenix_generations_total 0\n"))
	}))
	if rec := do(t, s, http.MethodGet, "/metrics", "", nil); !strings.Contains(rec.Body.String(), "phenix_generations_total") {
		t.Errorf("metrics body = %q", rec.Body.String())
	}
}

// TestSetMCP verifies that the MCP endpoint shares the generation API key.
func TestSetMCP(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "secret")
	s.SetMCP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	if rec := do(t, s, http.MethodPost, "/mcp", `{}`, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/mcp", `{}`, map[string]string{"X-API-Key": "secret"}); rec.Code != http.StatusAccepted {
		t.Errorf("valid key: status = %d, want 202", rec.Code)
	}
}
