// Package server provides the HTTP API for Trouve.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meublerie/trouve/internal/config"
	"github.com/meublerie/trouve/internal/discovery"
	"github.com/meublerie/trouve/internal/fuzzy"
	"github.com/meublerie/trouve/internal/metrics"
	"github.com/meublerie/trouve/internal/search"
	"github.com/meublerie/trouve/internal/storage"
	"github.com/meublerie/trouve/internal/synonym"
)

// Server is the HTTP server for the Trouve API.
type Server struct {
	engine    *search.Engine
	store     storage.Store
	index     *synonym.Index
	matcher   *fuzzy.Matcher
	discovery *discovery.Discovery
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	store storage.Store,
	index *synonym.Index,
	matcher *fuzzy.Matcher,
	disc *discovery.Discovery,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		store:     store,
		index:     index,
		matcher:   matcher,
		discovery: disc,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Get("/api/v1/search", s.handleSearch)

	r.Get("/api/v1/synonyms", s.handleListSynonyms)
	r.Post("/api/v1/synonyms", s.handleCreateSynonym)
	r.Put("/api/v1/synonyms/{id}", s.handleUpdateSynonym)
	r.Delete("/api/v1/synonyms/{id}", s.handleDeleteSynonym)

	r.Get("/api/v1/analytics/top-queries", s.handleTopQueries)
	r.Get("/api/v1/analytics/zero-results", s.handleZeroResults)

	r.Get("/api/v1/discovery/suggestions", s.handleDiscoverySuggestions)
	r.Post("/api/v1/discovery/apply", s.handleDiscoveryApply)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
