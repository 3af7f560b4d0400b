package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"grocery-scraper/extractor"
	"grocery-scraper/internal/cache"
	"grocery-scraper/internal/metrics"
)

// Server exposes the inventory orchestrator over HTTP
type Server struct {
	orchestrator *extractor.Orchestrator
	cache        *cache.InventoryCache
	metrics      *metrics.Metrics
	logger       *logrus.Logger
	router       *gin.Engine
	httpServer   *http.Server
}

// NewServer creates a new API server. A nil metrics disables /metrics.
func NewServer(orchestrator *extractor.Orchestrator, inventoryCache *cache.InventoryCache, m *metrics.Metrics, logger *logrus.Logger) *Server {
	s := &Server{
		orchestrator: orchestrator,
		cache:        inventoryCache,
		metrics:      m,
		logger:       logger,
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting API server on %s", addr)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  GET  /api/inventory?store=&query=&zip= - Scrape store inventory")
	s.logger.Info("  GET  /api/stores                        - Supported stores")
	s.logger.Info("  GET  /health                            - Health check")
	if s.metrics != nil {
		s.logger.Info("  GET  /metrics                           - Prometheus metrics")
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
