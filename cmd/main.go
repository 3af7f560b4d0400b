package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"grocery-scraper/adapters"
	"grocery-scraper/extractor"
	"grocery-scraper/internal/config"
	"grocery-scraper/internal/metrics"
	"grocery-scraper/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Parse command line flags
	var (
		storeFlag  = flag.String("store", "walmart", "Store to scrape (walmart, safeway, trader joe's, save mart)")
		queryFlag  = flag.String("query", "milk", "Product search term; \"food\" disables filtering")
		zipFlag    = flag.String("zip", "95616", "Shopper ZIP code")
		outputFlag = flag.String("output", "", "Output file path (default: stdout)")
		driverFlag = flag.String("driver", "", "Session driver: chromedp, selenium or http (default from SCRAPER_DRIVER)")
		modeFlag   = flag.String("mode", "", "Run mode: live or fallback (default from environment)")
		timeout    = flag.Duration("timeout", 0, "Per-page timeout (default from SCRAPER_TIMEOUT)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *driverFlag != "" {
		cfg.Driver = *driverFlag
	}
	if *modeFlag != "" {
		cfg.RunMode = *modeFlag
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}

	logger := config.NewLogger(cfg.LogLevel, *verbose)

	scraperConfig, err := cfg.ScraperConfig()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	logger.Infof("Run mode: %s, driver: %s", scraperConfig.RunMode, scraperConfig.Driver)

	registry := extractor.NewRegistry(adapters.Deps{
		Config:  scraperConfig,
		Logger:  logger,
		Metrics: metrics.NewMetrics(),
	})
	orchestrator := extractor.NewOrchestrator(registry, logger)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store := strings.TrimSpace(*storeFlag)
	if *outputFlag != "" {
		if err := orchestrator.ScrapeToJSON(ctx, store, *queryFlag, *zipFlag, *outputFlag); err != nil {
			logger.Fatalf("Scrape failed: %v", err)
		}
		return
	}

	resp, err := orchestrator.ScrapeInventory(ctx, store, *queryFlag, *zipFlag)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedStore) {
			logger.Errorf("Supported stores: %s", strings.Join(registry.SupportedStores(), ", "))
		}
		logger.Fatalf("Scrape failed: %v", err)
	}

	jsonData, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal results: %v", err)
	}
	fmt.Println(string(jsonData))

	logger.Infof("Store: %s (%s)", resp.Store.Name, resp.Store.Address)
	logger.Infof("Total products found: %d", resp.TotalResults)
}
