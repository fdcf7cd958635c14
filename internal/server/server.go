// Package server exposes the catalog resolvers and the matchup advisor
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lolmath/internal/catalog"
	"lolmath/internal/logging"
	"lolmath/internal/perception"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Analyzer produces matchup analyses. *perception.Advisor satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, m perception.Matchup) (*perception.Analysis, error)
}

// Server is the HTTP front end.
type Server struct {
	catalog *catalog.Store
	advisor Analyzer
	logger  *zap.Logger
	router  *chi.Mux
}

// New wires the router. advisor may be nil, in which case the analyze
// endpoint answers 503.
func New(store *catalog.Store, advisor Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: store,
		advisor: advisor,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/roles", s.handleRoles)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/catalog/reload", s.handleReload)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/resolve", s.handleResolve)

		r.Group(func(r chi.Router) {
			r.Use(s.requireCatalog)
			r.Get("/champions", s.handleChampions)
			r.Get("/assets/{kind}/{name}", s.handleAsset)
			r.Get("/abilities/{champion}", s.handleAbilities)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.API("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logging.API("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// requireCatalog answers 503 until the catalog has been loaded.
func (s *Server) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.catalog.IsLoaded() {
			writeError(w, http.StatusServiceUnavailable, catalog.ErrNotLoaded)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
