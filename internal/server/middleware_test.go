package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tailscale.com/client/tailscale/apitype"
	"tailscale.com/tailcfg"
)

type fakeWhoIs struct {
	resp *apitype.WhoIsResponse
	err  error
}

func (f fakeWhoIs) WhoIs(context.Context, string) (*apitype.WhoIsResponse, error) {
	return f.resp, f.err
}

// TestDevIdentity verifies that the dev identity middleware tags requests
// with the local coach, enabling local development without Tailscale.
func TestDevIdentity(t *testing.T) {
	var got Coach
	handler := DevIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = coachFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got.Login != "local" {
		t.Errorf("login = %q, want %q", got.Login, "local")
	}
}

// TestCoachFromContextDefault verifies the fallback when no identity
// middleware has run.
func TestCoachFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c := coachFromContext(req); c != localCoach {
		t.Errorf("coach = %+v, want %+v", c, localCoach)
	}
}

// TestTailscaleIdentity verifies that the tailnet login is stored in context.
func TestTailscaleIdentity(t *testing.T) {
	whois := fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "coach@club.fr", DisplayName: "Coach"},
	}}
	var got Coach
	handler := TailscaleIdentity(whois, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = coachFromContext(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got.Login != "coach@club.fr" {
		t.Errorf("login = %q, want %q", got.Login, "coach@club.fr")
	}
}

// TestTailscaleIdentityUnknownPeer verifies that unresolved peers are rejected.
func TestTailscaleIdentityUnknownPeer(t *testing.T) {
	handler := TailscaleIdentity(fakeWhoIs{err: errors.New("no such peer")}, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not be called for unknown peers")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestServerUsesTailscaleIdentity verifies that SetTailscale switches identity
// on routes registered earlier.
func TestServerUsesTailscaleIdentity(t *testing.T) {
	s, _ := newTestServer(&stubGenerator{}, "")
	s.SetTailscale(fakeWhoIs{resp: &apitype.WhoIsResponse{
		UserProfile: &tailcfg.UserProfile{LoginName: "coach@club.fr", DisplayName: "Coach"},
	}})

	coach := decode[Coach](t, do(t, s, http.MethodGet, "/api/v1/me", "", nil))
	if coach.Login != "coach@club.fr" {
		t.Errorf("login = %q, want %q", coach.Login, "coach@club.fr")
	}
}

// TestAPIKeyAuthDisabled verifies that an empty key lets every request through.
func TestAPIKeyAuthDisabled(t *testing.T) {
	handler := APIKeyAuth("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRequestLogging verifies that the logging middleware calls the next handler and records status.
func TestRequestLogging(t *testing.T) {
	log := slog.Default()
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies that CORS headers are set on responses.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies that OPTIONS requests get 204 with CORS headers.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for OPTIONS")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
