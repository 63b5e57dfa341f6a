package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"buildmatrix/internal/history"
	"buildmatrix/internal/project"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// HTTP server timeouts
	HTTPReadTimeout  = 10 * time.Second
	HTTPWriteTimeout = 10 * time.Second
	HTTPIdleTimeout  = 60 * time.Second

	// Request timeout for middleware
	RequestTimeout = 30 * time.Second

	// Rate limiting - requests per minute
	GlobalRateLimit  = 120
	ResolveRateLimit = 60
)

// Server represents the matrix-resolution HTTP service
type Server struct {
	Registry *project.Registry
	History  *history.History
	Logger   *slog.Logger
	TestMode bool
}

// NewServer creates a new server instance
func NewServer(registry *project.Registry, hist *history.History, logger *slog.Logger, testMode bool) *Server {
	return &Server{
		Registry: registry,
		History:  hist,
		Logger:   logger,
		TestMode: testMode,
	}
}

// Router creates and configures the HTTP router
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	// Logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				s.Logger.Info("http_request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(ww, r)
		})
	})

	// Rate limiting middleware (only if not in test mode)
	if !s.TestMode {
		r.Use(NewRateLimitMiddleware(GlobalRateLimit, s.Logger))
	}

	// Routes
	r.Get("/health", s.HandleHealth)
	r.Get("/projects/{projectName}", s.HandleProject)
	r.Get("/history/{projectName}", s.HandleHistory)

	// Resolve route with stricter rate limit
	if !s.TestMode {
		r.With(NewResolveRateLimitMiddleware(ResolveRateLimit, s.Logger)).Post("/resolve", s.HandleResolve)
	} else {
		r.Post("/resolve", s.HandleResolve)
	}

	return r
}

// Start starts the HTTP server
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.Logger.Info("Starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  HTTPReadTimeout,
		WriteTimeout: HTTPWriteTimeout,
		IdleTimeout:  HTTPIdleTimeout,
	}

	return server.ListenAndServe()
}

// Shutdown closes the history database connection
func (s *Server) Shutdown() error {
	if s.History != nil {
		return s.History.Close()
	}
	return nil
}
