package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"grocery-scraper/internal/types"
)

const maskScript = `
	Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
	window.chrome = {runtime: {}};
`

// SeleniumSession drives Chrome through a chromedriver service on a reserved port
type SeleniumSession struct {
	config  *types.Config
	logger  types.Logger
	ports   *PortManager
	port    int
	service *selenium.Service
	driver  selenium.WebDriver
	once    sync.Once
}

// NewSeleniumSession starts chromedriver and opens a remote browser
func NewSeleniumSession(ctx context.Context, config *types.Config, logger types.Logger, ports *PortManager) (*SeleniumSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := ports.GetPort()
	if err != nil {
		return nil, fmt.Errorf("port error: %w", err)
	}

	service, err := selenium.NewChromeDriverService(config.ChromeDriverPath, port)
	if err != nil {
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error starting Chrome driver service: %w", err)
	}

	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"--disable-extensions",
		"--disable-gpu",
		"--window-size=1920,1080",
		fmt.Sprintf("--user-agent=%s", config.UserAgent),
	}
	if config.Headless {
		args = append(args, "--headless=new")
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args:            args,
		ExcludeSwitches: []string{"enable-automation"},
		Prefs: map[string]interface{}{
			"profile.default_content_setting_values.notifications": 2,
		},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error creating WebDriver: %w", err)
	}
	if err := driver.SetPageLoadTimeout(config.Timeout); err != nil {
		logger.Warnf("Failed to set page load timeout: %v", err)
	}

	logger.Debugf("Selenium session started on port %d", port)
	return &SeleniumSession{
		config:  config,
		logger:  logger,
		ports:   ports,
		port:    port,
		service: service,
		driver:  driver,
	}, nil
}

// Navigate loads the page and returns the rendered source
func (s *SeleniumSession) Navigate(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.driver.Get(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrNavigation, pageURL, err)
	}
	if _, err := s.driver.ExecuteScript(maskScript, nil); err != nil {
		s.logger.Debugf("Mask script failed: %v", err)
	}
	return s.snapshot(ctx)
}

// Submit fills the first matching input and presses Enter
func (s *SeleniumSession) Submit(ctx context.Context, form Form) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opener := s.firstElement(form.Open); opener != nil {
		if err := opener.Click(); err != nil {
			return nil, fmt.Errorf("failed to open form: %w", err)
		}
		time.Sleep(time.Second)
	}

	input := s.firstElement(form.Inputs)
	if input == nil {
		return nil, fmt.Errorf("no form input matched %v", form.Inputs)
	}
	if err := input.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear input: %w", err)
	}
	if err := input.SendKeys(form.Value + selenium.EnterKey); err != nil {
		return nil, fmt.Errorf("failed to type into input: %w", err)
	}

	return s.snapshot(ctx)
}

func (s *SeleniumSession) firstElement(selectors []string) selenium.WebElement {
	for _, selector := range selectors {
		if elem, err := s.driver.FindElement(selenium.ByCSSSelector, selector); err == nil {
			return elem
		}
	}
	return nil
}

// snapshot waits for the page to settle and parses its source
func (s *SeleniumSession) snapshot(ctx context.Context) (*goquery.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.config.SettleDelay):
	}

	html, err := s.driver.PageSource()
	if err != nil {
		return nil, fmt.Errorf("page source error: %w", err)
	}
	location, err := s.driver.CurrentURL()
	if err != nil {
		location = ""
	}
	return ParseDocument(html, location)
}

// Close quits the browser, stops chromedriver and frees the port
func (s *SeleniumSession) Close() error {
	var err error
	s.once.Do(func() {
		if quitErr := s.driver.Quit(); quitErr != nil {
			err = quitErr
		}
		if stopErr := s.service.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
		s.ports.ReleasePort(s.port)
		s.logger.Debugf("Selenium session on port %d closed", s.port)
	})
	return err
}
