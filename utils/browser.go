package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"grocery-scraper/internal/types"
)

var extraHeaders = map[string]interface{}{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
}

// BrowserSession drives one headless Chrome instance through chromedp
type BrowserSession struct {
	config *types.Config
	logger types.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewBrowserSession launches a browser. The returned session owns the process until Close.
func NewBrowserSession(ctx context.Context, config *types.Config, logger types.Logger) (*BrowserSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// The first Run starts the browser, so it must use the long-lived context.
	// A deadline on that context would kill the browser later, so the launch is
	// bounded separately and aborted through cancel if Chrome never comes up.
	err := runWithin(config.Timeout, cancel, func() error {
		return chromedp.Run(browserCtx,
			network.Enable(),
			network.SetExtraHTTPHeaders(network.Headers(extraHeaders)),
		)
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debugf("Browser session started (headless=%v)", config.Headless)
	return &BrowserSession{
		config: config,
		logger: logger,
		ctx:    browserCtx,
		cancel: cancel,
	}, nil
}

// runWithin waits at most d for run. On timeout it calls abort, waits for run to
// return and reports context.DeadlineExceeded.
func runWithin(d time.Duration, abort func(), run func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- run()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		abort()
		<-done
		return fmt.Errorf("no response within %v: %w", d, context.DeadlineExceeded)
	}
}

// stepContext bounds one navigation or wait step by the configured timeout and the caller's context
func (b *BrowserSession) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	stepCtx, cancel := context.WithTimeout(b.ctx, b.config.Timeout)
	stop := context.AfterFunc(ctx, cancel)
	return stepCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads pageURL in the session's tab and returns the rendered DOM.
// The whole step is bounded by the configured timeout and by ctx. After the
// body is ready the page gets SettleDelay to run its scripts before the HTML
// is captured. The document's base URL is the final location, so relative
// links resolve against the page we ended up on after redirects.
// Errors wrap types.ErrNavigation.
func (b *BrowserSession) Navigate(ctx context.Context, pageURL string) (*goquery.Document, error) {
	stepCtx, cancel := b.stepContext(ctx)
	defer cancel()

	var html, location string
	err := chromedp.Run(stepCtx,
		chromedp.Navigate(pageURL),
		// Wait for the body before settling
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.config.SettleDelay),
		// Capture where redirects left us, then the rendered markup
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrNavigation, pageURL, err)
	}

	b.logger.Debugf("Retrieved page content from %s (%d bytes)", location, len(html))
	return ParseDocument(html, location)
}

// Submit fills the first matching input, presses Enter and returns the settled DOM
func (b *BrowserSession) Submit(ctx context.Context, form Form) (*goquery.Document, error) {
	stepCtx, cancel := b.stepContext(ctx)
	defer cancel()

	if opener := b.firstPresent(stepCtx, form.Open); opener != "" {
		if err := chromedp.Run(stepCtx,
			chromedp.Click(opener, chromedp.ByQuery),
			chromedp.Sleep(time.Second),
		); err != nil {
			return nil, fmt.Errorf("failed to open form via %s: %w", opener, err)
		}
	}

	input := b.firstPresent(stepCtx, form.Inputs)
	if input == "" {
		return nil, fmt.Errorf("no form input matched %v", form.Inputs)
	}

	var html, location string
	err := chromedp.Run(stepCtx,
		chromedp.Clear(input, chromedp.ByQuery),
		chromedp.SendKeys(input, form.Value+kb.Enter, chromedp.ByQuery),
		chromedp.Sleep(b.config.SettleDelay),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", input, err)
	}

	return ParseDocument(html, location)
}

// firstPresent returns the first selector that currently matches a node, or ""
func (b *BrowserSession) firstPresent(ctx context.Context, selectors []string) string {
	for _, selector := range selectors {
		var nodes []*cdp.Node
		err := chromedp.Run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
		if err == nil && len(nodes) > 0 {
			return selector
		}
	}
	return ""
}

// Close shuts the browser down. It is safe to call more than once.
func (b *BrowserSession) Close() error {
	var err error
	b.once.Do(func() {
		err = chromedp.Cancel(b.ctx)
		b.cancel()
		b.logger.Debug("Browser session closed")
	})
	return err
}
