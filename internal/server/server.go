// Package server provides the HTTP API for sheetsum.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sheetsum/sheetsum/internal/analysis"
	"github.com/sheetsum/sheetsum/internal/config"
)

// Server is the HTTP server for the sheetsum API.
type Server struct {
	cfg      *config.Config
	analyzer analysis.Analyzer
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. analyzer may be nil
// when no API key is configured; the analyze endpoint then reports the
// service as unconfigured.
func NewServer(cfg *config.Config, analyzer analysis.Analyzer, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Routes builds the router. Split out from Start so tests can serve it
// through httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Post("/api/v1/upload", s.handleUpload)
	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/health", s.handleHealth)
	return r
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
