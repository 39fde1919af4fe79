package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/phenix/internal/session"
	"github.com/claude/phenix/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *session.Controller
	attempts storage.AttemptLog
	log      *slog.Logger
	apiKey   string
	whois    WhoIsClient
	router   chi.Router
}

// New creates a new Server with all routes configured. attempts may be nil
// when no attempt log is configured; an empty apiKey leaves generation open.
func New(sessions *session.Controller, attempts storage.AttemptLog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		attempts: attempts,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/options", s.handleOptions)
		r.Get("/priorities", s.handlePriorities)
		r.Get("/qualities", s.handleQualities)
		r.Get("/sessions/current", s.handleCurrentSession)
		r.Get("/attempts", s.handleAttempts)

		// Generation spends provider quota.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/sessions", s.handleCreateSession)
		})
	})
}

// SetMetrics mounts a Prometheus handler at /metrics.
func (s *Server) SetMetrics(h http.Handler) {
	s.router.Handle("/metrics", h)
}

// SetMCP mounts the streamable MCP endpoint at /mcp behind the API key.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", APIKeyAuth(s.apiKey)(h))
}

// SetTailscale enables per-request coach identity from the tailnet.
func (s *Server) SetTailscale(c WhoIsClient) {
	s.whois = c
}

// SetFrontend mounts the embedded form filesystem.
// Unmatched routes serve index.html.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
