package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"grocery-scraper/internal/types"
)

// Config holds the process configuration read from the environment
type Config struct {
	RunMode          string        `envconfig:"RUN_MODE"`
	Driver           string        `envconfig:"SCRAPER_DRIVER" default:"chromedp"`
	Timeout          time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"30s"`
	SettleDelay      time.Duration `envconfig:"SCRAPER_SETTLE_DELAY" default:"3s"`
	RequestDelay     time.Duration `envconfig:"SCRAPER_REQUEST_DELAY" default:"1s"`
	MaxRetries       int           `envconfig:"SCRAPER_MAX_RETRIES" default:"2"`
	Headless         bool          `envconfig:"SCRAPER_HEADLESS" default:"true"`
	UserAgent        string        `envconfig:"SCRAPER_USER_AGENT"`
	ChromeDriverPath string        `envconfig:"CHROMEDRIVER_PATH" default:"/usr/local/bin/chromedriver"`
	SeleniumBasePort int           `envconfig:"SELENIUM_BASE_PORT" default:"4444"`
	SeleniumPorts    int           `envconfig:"SELENIUM_PORTS" default:"16"`
	SelectorsFile    string        `envconfig:"SELECTORS_FILE"`

	Port      string        `envconfig:"API_PORT" default:"8080"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	CacheSize int           `envconfig:"CACHE_SIZE" default:"256"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`

	// Hosting signals. Any of them marks a constrained environment without a usable browser.
	Vercel     string `envconfig:"VERCEL"`
	Netlify    string `envconfig:"NETLIFY"`
	LambdaName string `envconfig:"AWS_LAMBDA_FUNCTION_NAME"`
	AppEnv     string `envconfig:"APP_ENV"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Constrained reports whether the process runs on a serverless or production host
// where browser automation is assumed to be unavailable.
func (c *Config) Constrained() bool {
	return c.Vercel != "" ||
		c.Netlify != "" ||
		c.LambdaName != "" ||
		strings.EqualFold(c.AppEnv, "production")
}

// ResolveRunMode decides the run mode once at startup. An explicit RUN_MODE wins,
// otherwise constrained environments use fallback data only.
func (c *Config) ResolveRunMode() (types.RunMode, error) {
	if c.RunMode != "" {
		return types.ParseRunMode(c.RunMode)
	}
	if c.Constrained() {
		return types.RunModeFallbackOnly, nil
	}
	return types.RunModeLive, nil
}

// ScraperConfig builds and validates the extractor configuration
func (c *Config) ScraperConfig() (*types.Config, error) {
	mode, err := c.ResolveRunMode()
	if err != nil {
		return nil, err
	}

	scraper := types.DefaultConfig()
	scraper.RunMode = mode
	scraper.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	scraper.Timeout = c.Timeout
	scraper.SettleDelay = c.SettleDelay
	scraper.RequestDelay = c.RequestDelay
	scraper.MaxRetries = c.MaxRetries
	scraper.Headless = c.Headless
	scraper.ChromeDriverPath = c.ChromeDriverPath
	scraper.SeleniumBasePort = c.SeleniumBasePort
	scraper.SeleniumPorts = c.SeleniumPorts
	if c.UserAgent != "" {
		scraper.UserAgent = c.UserAgent
	}

	if c.SelectorsFile != "" {
		overrides, err := LoadSelectors(c.SelectorsFile)
		if err != nil {
			return nil, err
		}
		scraper.Selectors = overrides
	}

	if err := scraper.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scraper config: %w", err)
	}
	return scraper, nil
}

// LoadSelectors reads per-retailer selector overrides from a YAML file of the form
//
//	walmart:
//	  product_cards:
//	    - "li.search-result"
func LoadSelectors(path string) (types.SelectorOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selectors file: %w", err)
	}

	var overrides types.SelectorOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse selectors file %s: %w", path, err)
	}

	known := make(map[string]bool)
	for _, r := range types.Retailers() {
		known[r.Key] = true
	}
	for key := range overrides {
		if !known[key] {
			return nil, fmt.Errorf("selectors file %s: unknown retailer %q", path, key)
		}
	}
	return overrides, nil
}
