package extractor

import (
	"context"
	"time"

	"grocery-scraper/internal/types"
)

// Orchestrator is the single entry point for inventory requests
type Orchestrator struct {
	registry *Registry
	logger   types.Logger
}

// NewOrchestrator creates an orchestrator backed by registry
func NewOrchestrator(registry *Registry, logger types.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		logger:   logger,
	}
}

// Registry returns the registry used to resolve store names
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// ScrapeInventory resolves storeName and runs its extractor.
// Unknown stores fail with *types.UnsupportedStoreError before any page is loaded.
// Extractor errors are returned as *types.ScrapeError; no further fallback is applied here.
func (o *Orchestrator) ScrapeInventory(ctx context.Context, storeName, query, zip string) (*types.InventoryResponse, error) {
	ext, ok := o.registry.Resolve(storeName)
	if !ok {
		o.logger.Warnf("No scraper available for store: %s", storeName)
		return nil, &types.UnsupportedStoreError{Store: storeName}
	}
	defer func() {
		if err := ext.Close(); err != nil {
			o.logger.Warnf("Failed to close %s extractor: %v", ext.RetailerName(), err)
		}
	}()

	startTime := time.Now()
	o.logger.Infof("Starting %s inventory scrape for %q near %s", ext.RetailerName(), query, zip)

	resp, err := ext.ScrapeInventory(ctx, query, zip)
	if err != nil {
		o.logger.Errorf("Error scraping %s inventory: %v", ext.RetailerName(), err)
		return nil, &types.ScrapeError{
			Retailer: ext.RetailerName(),
			Query:    query,
			Zip:      zip,
			Err:      err,
		}
	}

	o.logger.Infof("%s inventory scrape completed in %v with %d products",
		ext.RetailerName(), time.Since(startTime), resp.TotalResults)
	return resp, nil
}
