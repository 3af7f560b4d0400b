package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"grocery-scraper/adapters"
	"grocery-scraper/extractor"
	"grocery-scraper/internal/config"
	"grocery-scraper/internal/types"
)

// inspectable is the part of a retailer adapter the selector check needs
type inspectable interface {
	types.Extractor
	Retailer() types.Retailer
	Selectors() adapters.SelectorSet
	Navigate(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// selectors loads one retailer page and reports how many nodes each cascade entry matches,
// which shows at a glance which selectors have drifted.
func main() {
	var (
		storeFlag = flag.String("store", "walmart", "Store whose selector cascades are checked")
		urlFlag   = flag.String("url", "", "Page to load (default: the retailer homepage)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.RunMode = string(types.RunModeLive)
	logger := config.NewLogger(cfg.LogLevel, *verbose)

	scraperConfig, err := cfg.ScraperConfig()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	ext, ok := extractor.NewRegistry(adapters.Deps{Config: scraperConfig, Logger: logger}).Resolve(*storeFlag)
	if !ok {
		logger.Fatalf("Unsupported store: %s", *storeFlag)
	}

	p, ok := ext.(inspectable)
	if !ok {
		ext.Close()
		logger.Fatalf("%s extractor exposes no selector cascades", ext.RetailerName())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = inspectAndClose(ctx, p, *urlFlag, os.Stdout)
	cancel()
	if err != nil {
		logger.Fatalf("Selector check failed: %v", err)
	}
}

// inspectAndClose loads the page, reports the cascades and always closes the extractor, so a failed
// page load never leaves a browser process behind.
func inspectAndClose(ctx context.Context, p inspectable, pageURL string, w io.Writer) error {
	defer func() {
		if err := p.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close %s session: %v\n", p.RetailerName(), err)
		}
	}()

	if pageURL == "" {
		pageURL = p.Retailer().Homepage
	}

	doc, err := p.Navigate(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", pageURL, err)
	}

	report(w, p.RetailerName(), pageURL, doc, p.Selectors())
	return nil
}

// report prints the match count of every cascade entry, targets sorted by name
func report(w io.Writer, retailer, pageURL string, doc *goquery.Document, selectors adapters.SelectorSet) {
	fmt.Fprintf(w, "=== %s: %s ===\n", retailer, pageURL)
	fmt.Fprintf(w, "Title: %s\n", doc.Find("title").First().Text())
	fmt.Fprintf(w, "JSON-LD blocks: %d\n", doc.Find("script[type='application/ld+json']").Length())

	targets := make([]string, 0, len(selectors))
	for target := range selectors {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		fmt.Fprintf(w, "\n%s\n", target)
		for _, selector := range selectors[target] {
			fmt.Fprintf(w, "  %4d  %s\n", adapters.FindNodes(doc.Selection, selector).Length(), selector)
		}
	}
}
