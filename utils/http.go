package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"grocery-scraper/internal/types"
)

// HTTPSession fetches static HTML with rate limiting and retries. It cannot run page scripts or fill forms.
type HTTPSession struct {
	client  *resty.Client
	config  *types.Config
	logger  types.Logger
	limiter *rate.Limiter
}

// NewHTTPSession creates a new HTTP session with the given configuration
func NewHTTPSession(config *types.Config, logger types.Logger) *HTTPSession {
	client := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeaders(map[string]string{
			"User-Agent":                config.UserAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	limit := rate.Inf
	if config.RequestDelay > 0 {
		limit = rate.Every(config.RequestDelay)
	}

	return &HTTPSession{
		client:  client,
		config:  config,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Navigate performs a GET request and parses the body
func (h *HTTPSession) Navigate(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	h.logger.Debugf("Making request to %s", pageURL)
	resp, err := h.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrNavigation, pageURL, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status code %d", types.ErrBlocked, code)
	case code != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status code: %d", types.ErrNavigation, code)
	}

	location := pageURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		location = raw.Request.URL.String()
	}

	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(resp.Body()), location)
	return ParseDocument(string(resp.Body()), location)
}

// Submit is not available without a browser
func (h *HTTPSession) Submit(ctx context.Context, form Form) (*goquery.Document, error) {
	return nil, types.ErrSubmitUnsupported
}

// Close cleans up idle connections
func (h *HTTPSession) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}
