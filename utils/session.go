package utils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"grocery-scraper/internal/types"
)

// Session is one page context owned by a single scrape call.
// Every session must be closed by the caller that opened it.
type Session interface {
	// Navigate loads the page, waits for dynamic content to settle and returns a DOM snapshot
	Navigate(ctx context.Context, pageURL string) (*goquery.Document, error)

	// Submit types a value into the first matching input of the current page and presses Enter
	Submit(ctx context.Context, form Form) (*goquery.Document, error)

	// Close releases the browser process or connections behind the session
	Close() error
}

// Form describes a ZIP-code style input on the current page
type Form struct {
	Open   []string // optional control that reveals the input
	Inputs []string // candidate input selectors, in priority order
	Value  string
}

// SessionFactory opens a new session
type SessionFactory func(ctx context.Context) (Session, error)

// NewSessionFactory returns a factory for the driver named in the configuration
func NewSessionFactory(config *types.Config, logger types.Logger) SessionFactory {
	switch config.Driver {
	case types.DriverHTTP:
		return func(ctx context.Context) (Session, error) {
			return NewHTTPSession(config, logger), nil
		}
	case types.DriverSelenium:
		ports := NewPortManager(config.SeleniumBasePort, config.SeleniumPorts)
		return func(ctx context.Context) (Session, error) {
			return NewSeleniumSession(ctx, config, logger, ports)
		}
	default:
		return func(ctx context.Context) (Session, error) {
			return NewBrowserSession(ctx, config, logger)
		}
	}
}

var blockedMarkers = []string{
	"robot check",
	"captcha",
	"access denied",
	"are you a human",
	"verify you are human",
	"pardon our interruption",
}

// CheckDocument returns ErrBlocked when the page looks like an anti-bot interstitial
func CheckDocument(doc *goquery.Document) error {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	for _, marker := range blockedMarkers {
		if strings.Contains(title, marker) {
			return fmt.Errorf("%w: page title %q", types.ErrBlocked, title)
		}
	}
	if doc.Find("iframe[src*='captcha'], #px-captcha, .g-recaptcha").Length() > 0 {
		return fmt.Errorf("%w: captcha element present", types.ErrBlocked)
	}
	return nil
}

// ParseDocument parses page HTML, records the page URL as the document base and rejects blocked pages
func ParseDocument(html, pageURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if u, err := url.Parse(pageURL); err == nil {
		doc.Url = u
	}
	if err := CheckDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
