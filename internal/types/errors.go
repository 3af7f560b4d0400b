package types

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedStore is returned when no extractor matches a retailer name
	ErrUnsupportedStore = errors.New("store not supported")

	// ErrBlocked is returned when a page looks like a captcha or access-denied page
	ErrBlocked = errors.New("blocked by anti-bot page")

	// ErrEmptyExtraction is returned when no selector yielded a usable record
	ErrEmptyExtraction = errors.New("no usable records extracted")

	// ErrSubmitUnsupported is returned by sessions that cannot fill forms
	ErrSubmitUnsupported = errors.New("session driver cannot submit forms")

	// ErrNavigation is returned when a page could not be loaded
	ErrNavigation = errors.New("navigation failed")
)

// UnsupportedStoreError names the retailer that could not be resolved
type UnsupportedStoreError struct {
	Store string
}

func (e *UnsupportedStoreError) Error() string {
	return fmt.Sprintf("no scraper available for store: %s", e.Store)
}

func (e *UnsupportedStoreError) Is(target error) bool {
	return target == ErrUnsupportedStore
}

// ScrapeError carries the request context of a failed scrape
type ScrapeError struct {
	Retailer string
	Query    string
	Zip      string
	Err      error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s (query=%q zip=%q): %v", e.Retailer, e.Query, e.Zip, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// ErrorLabel returns a short metrics label for an error
func ErrorLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrBlocked):
		return "blocked"
	case errors.Is(err, ErrEmptyExtraction):
		return "empty"
	case errors.Is(err, ErrNavigation):
		return "navigation"
	case errors.Is(err, ErrUnsupportedStore):
		return "unsupported"
	default:
		return "other"
	}
}
