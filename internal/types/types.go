package types

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Availability describes the stock state of a product at a store
type Availability string

const (
	InStock    Availability = "in-stock"
	OutOfStock Availability = "out-of-stock"
	Limited    Availability = "limited"
)

// Product represents a single sellable item discovered at one retailer
type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Price         string       `json:"price"`
	OriginalPrice string       `json:"originalPrice,omitempty"`
	ImageURL      string       `json:"imageUrl"`
	Availability  Availability `json:"availability"`
	URL           string       `json:"url"`
	Category      string       `json:"category,omitempty"`
}

// Store represents a physical retailer location
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Distance string `json:"distance,omitempty"`
}

// Retailer identifies one supported grocery chain
type Retailer struct {
	Key      string // short id used in store ids, metrics labels and selector overrides
	Name     string // display name
	Homepage string
}

var (
	Walmart    = Retailer{Key: "walmart", Name: "Walmart", Homepage: "https://www.walmart.com"}
	Safeway    = Retailer{Key: "safeway", Name: "Safeway", Homepage: "https://www.safeway.com"}
	TraderJoes = Retailer{Key: "traderjoes", Name: "Trader Joe's", Homepage: "https://www.traderjoes.com"}
	SaveMart   = Retailer{Key: "savemart", Name: "Save Mart", Homepage: "https://savemart.com"}
)

// Retailers lists every supported retailer
func Retailers() []Retailer {
	return []Retailer{Walmart, Safeway, TraderJoes, SaveMart}
}

// InventoryResponse is the result of one scrape call
type InventoryResponse struct {
	Query        string    `json:"query"`
	Zip          string    `json:"zip"`
	Store        Store     `json:"store"`
	Products     []Product `json:"products"`
	Timestamp    string    `json:"timestamp"`
	TotalResults int       `json:"totalResults"`
}

// TimestampLayout is the ISO-8601 layout used for InventoryResponse.Timestamp
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewInventoryResponse assembles a response and keeps TotalResults in sync with Products
func NewInventoryResponse(query, zip string, store Store, products []Product, now time.Time) *InventoryResponse {
	if products == nil {
		products = []Product{}
	}
	return &InventoryResponse{
		Query:        query,
		Zip:          zip,
		Store:        store,
		Products:     products,
		Timestamp:    now.UTC().Format(TimestampLayout),
		TotalResults: len(products),
	}
}

// RunMode selects between live browser automation and fallback data
type RunMode string

const (
	RunModeLive         RunMode = "live"
	RunModeFallbackOnly RunMode = "fallback"
)

// ParseRunMode converts a textual run mode into a RunMode
func ParseRunMode(s string) (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live":
		return RunModeLive, nil
	case "fallback", "fallback-only", "fallbackonly":
		return RunModeFallbackOnly, nil
	default:
		return "", fmt.Errorf("unknown run mode %q (expected live or fallback)", s)
	}
}

// Supported session drivers
const (
	DriverChromedp = "chromedp"
	DriverSelenium = "selenium"
	DriverHTTP     = "http"
)

// Config holds the configuration for the extractors
type Config struct {
	RunMode          RunMode
	Driver           string
	Timeout          time.Duration
	SettleDelay      time.Duration
	RequestDelay     time.Duration
	MaxRetries       int
	UserAgent        string
	Headless         bool
	ChromeDriverPath string
	SeleniumBasePort int
	SeleniumPorts    int
	Selectors        SelectorOverrides
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RunMode:          RunModeLive,
		Driver:           DriverChromedp,
		Timeout:          30 * time.Second,
		SettleDelay:      3 * time.Second,
		RequestDelay:     1 * time.Second,
		MaxRetries:       2,
		UserAgent:        "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Headless:         true,
		ChromeDriverPath: "/usr/local/bin/chromedriver",
		SeleniumBasePort: 4444,
		SeleniumPorts:    16,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.RunMode != RunModeLive && c.RunMode != RunModeFallbackOnly {
		return fmt.Errorf("run mode must be live or fallback, got %q", c.RunMode)
	}
	switch c.Driver {
	case DriverChromedp, DriverSelenium, DriverHTTP:
	default:
		return fmt.Errorf("driver must be chromedp, selenium or http, got %q", c.Driver)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay cannot be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Driver == DriverSelenium {
		if c.ChromeDriverPath == "" {
			return fmt.Errorf("chromedriver path is required for the selenium driver")
		}
		if c.SeleniumBasePort <= 0 || c.SeleniumPorts <= 0 {
			return fmt.Errorf("selenium port range must be positive")
		}
	}
	return nil
}

// SelectorOverrides maps a retailer key to extra selectors per extraction target.
// Override selectors are tried before the built-in ones.
type SelectorOverrides map[string]map[string][]string

// For returns the override selectors for one retailer target
func (o SelectorOverrides) For(retailer, target string) []string {
	if o == nil {
		return nil
	}
	return o[retailer][target]
}

// Extractor is the contract every retailer extractor implements
type Extractor interface {
	// RetailerName returns the display name of the retailer
	RetailerName() string

	// FindStores returns stores near the ZIP code; it always returns at least one store
	FindStores(ctx context.Context, zip string) []Store

	// SearchProducts returns normalized products for the query at the given store
	SearchProducts(ctx context.Context, query, zip string, store Store) ([]Product, error)

	// ScrapeInventory runs the full pipeline and substitutes fallback data on failure
	ScrapeInventory(ctx context.Context, query, zip string) (*InventoryResponse, error)

	// Close releases the session held by the extractor
	Close() error
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Random is the source used for randomized choices such as fallback images
type Random interface {
	Intn(n int) int
}
