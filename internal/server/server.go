// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout   input document → layout payload (application/json)
//	POST /v1/dot      input document → bundle graph (?format=dot|svg|pdf|png, ?detailed=true)
//	GET  /healthz     liveness probe
//
// Request bodies are JSON by default; YAML and TOML documents are accepted
// with a matching Content-Type. Both POST routes accept ?refresh=true to
// bypass cached results. Every response carries an X-Request-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tangle/pkg/config"
	"github.com/matzehuels/tangle/pkg/pipeline"
)

// Config configures a [Server].
type Config struct {
	Addr         string
	MaxBodyBytes int64

	// Options are the per-request defaults (layout geometry and key names).
	Options pipeline.Options
}

// Server holds the chi router and the pipeline runner.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a Server with all routes configured. Zero Addr and
// MaxBodyBytes take the config package defaults.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully,
// waiting up to 10 seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/dot", s.handleDOT)
	})

	return r
}
