// Package server exposes the render pipeline as an HTTP service.
//
// Routes:
//
//	POST   /api/v1/render               render a graph description
//	DELETE /api/v1/cache/{fingerprint}  drop one cached artifact
//	GET    /healthz                     liveness probe
//	GET    /metrics                     prometheus metrics
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipperviz/clipper/pkg/render"
)

// =============================================================================
// Server
// =============================================================================

// Config carries the listener settings.
type Config struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves render requests over HTTP. Create it with [New] and run it
// with [Server.ListenAndServe]; the pipeline's cache is shared across all
// requests.
type Server struct {
	pipe            *render.Pipeline
	log             *log.Logger
	http            *http.Server
	shutdownTimeout time.Duration
}

// New wires a server around an existing pipeline. A nil logger falls back
// to the process default.
func New(pipe *render.Pipeline, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		pipe:            pipe,
		log:             logger.With("component", "server"),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Delete("/cache/{fingerprint}", s.handleInvalidate)
	})
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until ctx is canceled or the listener fails. On
// cancellation it drains in-flight requests within the shutdown timeout
// before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
