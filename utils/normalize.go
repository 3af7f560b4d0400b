package utils

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"grocery-scraper/internal/types"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]`)
	priceNumber   = regexp.MustCompile(`(?:(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?|\.(\d{1,2}))`)
	whitespaceRun = regexp.MustCompile(`\s+`)

	textPolicy = bluemonday.StrictPolicy()
)

// categoryKeywords is evaluated in order; the first category with a matching keyword wins
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"dairy", []string{"milk", "cheese", "yogurt"}},
	{"bakery", []string{"bread", "bagel", "muffin"}},
	{"meat", []string{"chicken", "beef", "pork", "meat"}},
	{"produce", []string{"banana", "apple", "tomato", "produce"}},
	{"frozen", []string{"frozen", "ice cream", "gnocchi"}},
	{"seafood", []string{"fish", "salmon", "seafood"}},
	{"wine", []string{"wine", "beer", "alcohol"}},
	{"condiments", []string{"seasoning", "sauce", "butter"}},
}

// DefaultCategory is used when no keyword matches
const DefaultCategory = "grocery"

// GenerateProductID derives a stable id from the product name and store id.
// The same name at the same store always yields the same id.
func GenerateProductID(name, storeID string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return storeID + "-" + slug
}

// FormatPrice normalizes raw price text such as "Now $1,234.5" or "58¢" into "$1234.50".
// The boolean is false when the text holds no usable number. Cent-only amounts
// like "$.99" keep their value, and a bare percentage such as "Save 50%" is not a price.
func FormatPrice(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	// "2 for $5" should read the dollar amount, not the multiplier
	hasDollar := strings.Contains(raw, "$")
	search := raw
	if i := strings.Index(raw, "$"); i >= 0 {
		search = raw[i:]
	}

	loc := priceNumber.FindStringSubmatchIndex(search)
	if loc == nil {
		return "", false
	}
	if !hasDollar && strings.HasPrefix(search[loc[1]:], "%") {
		return "", false
	}

	whole, frac := "0", ""
	if loc[2] >= 0 {
		whole = strings.ReplaceAll(search[loc[2]:loc[3]], ",", "")
	}
	switch {
	case loc[4] >= 0:
		frac = search[loc[4]:loc[5]]
	case loc[6] >= 0:
		frac = search[loc[6]:loc[7]]
	}
	value, err := strconv.ParseFloat(whole+"."+frac+"0", 64)
	if err != nil {
		return "", false
	}

	if frac == "" && strings.Contains(raw, "¢") && !hasDollar {
		value = value / 100
	}

	return fmt.Sprintf("$%.2f", value), true
}

// CategorizeProduct infers a coarse category from keywords in the product name
func CategorizeProduct(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return DefaultCategory
}

// CleanText strips markup and collapses whitespace in text scraped from a page
func CleanText(s string) string {
	s = html.UnescapeString(textPolicy.Sanitize(s))
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// ResolveURL resolves ref against base and returns an absolute http(s) URL, or "" if that is not possible
func ResolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "javascript:") || ref == "#" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if !parsed.IsAbs() {
		if base == nil {
			return ""
		}
		parsed = base.ResolveReference(parsed)
	}
	if !IsAbsoluteHTTPURL(parsed.String()) {
		return ""
	}
	return parsed.String()
}

// IsAbsoluteHTTPURL reports whether s is a non-empty absolute http or https URL
func IsAbsoluteHTTPURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DetectAvailability looks for stock markers in the text of a product card
func DetectAvailability(text string) types.Availability {
	lower := strings.ToLower(text)
	for _, marker := range []string{"out of stock", "sold out", "unavailable", "not available"} {
		if strings.Contains(lower, marker) {
			return types.OutOfStock
		}
	}
	for _, marker := range []string{"only a few left", "low stock", "limited stock", "limited quantity", "left in stock"} {
		if strings.Contains(lower, marker) {
			return types.Limited
		}
	}
	if strings.Contains(lower, "only ") && strings.Contains(lower, " left") {
		return types.Limited
	}
	return types.InStock
}
