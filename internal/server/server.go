// Package server exposes the visualization pipeline and the map store over
// HTTP. It backs the `synapse serve` command.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sumnatarya/Synapse/pkg/pipeline"
	"github.com/sumnatarya/Synapse/pkg/store"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	// maxBodyBytes bounds request bodies; tree documents are small.
	maxBodyBytes = 4 << 20
)

// Config configures the HTTP server.
type Config struct {
	Addr string `toml:"addr" json:"addr"`
}

// DefaultConfig returns the default server settings.
func DefaultConfig() Config {
	return Config{Addr: ":8080"}
}

// Server serves map documents and rendered artifacts.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New assembles a server around the given runner and map store.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/maps", func(r chi.Router) {
			r.Get("/", s.handleListMaps)
			r.Post("/", s.handleCreateMap)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetMap)
				r.Delete("/", s.handleDeleteMap)
				r.Get("/layout", s.handleMapLayout)
				r.Get("/svg", s.handleMapSVG)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	if cfg.Addr == "" {
		cfg = DefaultConfig()
	}
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
