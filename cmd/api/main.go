package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"grocery-scraper/adapters"
	"grocery-scraper/api"
	"grocery-scraper/extractor"
	"grocery-scraper/internal/cache"
	"grocery-scraper/internal/config"
	"grocery-scraper/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger("info", false).Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel, false)
	if cfg.Constrained() {
		gin.SetMode(gin.ReleaseMode)
	}

	scraperConfig, err := cfg.ScraperConfig()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Infof("Run mode: %s, driver: %s", scraperConfig.RunMode, scraperConfig.Driver)

	m := metrics.NewMetrics()
	registry := extractor.NewRegistry(adapters.Deps{
		Config:  scraperConfig,
		Logger:  logger,
		Metrics: m,
	})

	server := api.NewServer(
		extractor.NewOrchestrator(registry, logger),
		cache.New(cfg.CacheSize, cfg.CacheTTL),
		m,
		logger,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		logger.Infof("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
