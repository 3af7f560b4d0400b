package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"grocery-scraper/utils"
)

// xpathPrefix marks a cascade entry as an XPath expression instead of a CSS selector
const xpathPrefix = "xpath:"

// Cascade targets. They double as the keys of the selector override file.
const (
	TargetStoreCards    = "store_cards"
	TargetStoreName     = "store_name"
	TargetStoreAddress  = "store_address"
	TargetStoreDistance = "store_distance"
	TargetProductCards  = "product_cards"
	TargetProductName   = "product_name"
	TargetProductPrice  = "product_price"
	TargetOriginalPrice = "product_original_price"
	TargetProductImage  = "product_image"
	TargetProductLink   = "product_link"
	TargetLocationOpen  = "location_open"
	TargetLocationInput = "location_input"
)

// SelectorSet holds the ordered selector cascade for each extraction target
type SelectorSet map[string][]string

// With returns a copy of the set with the override selectors placed in front of the built-in ones
func (s SelectorSet) With(overrides map[string][]string) SelectorSet {
	merged := make(SelectorSet, len(s))
	for target, selectors := range s {
		merged[target] = append([]string(nil), selectors...)
	}
	for target, extra := range overrides {
		merged[target] = append(append([]string(nil), extra...), merged[target]...)
	}
	return merged
}

// FindNodes evaluates one cascade entry below root. Entries prefixed with
// "xpath:" are evaluated with htmlquery, everything else is a CSS selector.
func FindNodes(root *goquery.Selection, selector string) *goquery.Selection {
	expr, isXPath := strings.CutPrefix(selector, xpathPrefix)
	if !isXPath {
		return root.Find(selector)
	}

	var nodes []*html.Node
	for _, n := range root.Nodes {
		found, err := htmlquery.QueryAll(n, strings.TrimSpace(expr))
		if err != nil {
			return root.FindNodes()
		}
		nodes = append(nodes, found...)
	}
	return root.FindNodes(nodes...)
}

// FirstMatch returns the matches of the first selector with at least one hit, and that selector
func FirstMatch(root *goquery.Selection, selectors []string) (*goquery.Selection, string) {
	for _, selector := range selectors {
		if found := FindNodes(root, selector); found.Length() > 0 {
			return found, selector
		}
	}
	return root.FindNodes(), ""
}

// TextOf returns the cleaned text of the first selector whose first match has non-empty text
func TextOf(root *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		found := FindNodes(root, selector)
		if found.Length() == 0 {
			continue
		}
		if text := utils.CleanText(found.First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// AttrOf returns the first non-empty value among attrs on the first match of each selector, in order.
// Inline data: URIs are skipped since lazy-loading pages use them as placeholders.
func AttrOf(root *goquery.Selection, selectors []string, attrs ...string) string {
	for _, selector := range selectors {
		found := FindNodes(root, selector)
		if found.Length() == 0 {
			continue
		}
		first := found.First()
		for _, attr := range attrs {
			value := strings.TrimSpace(first.AttrOr(attr, ""))
			if value != "" && !strings.HasPrefix(value, "data:") {
				return value
			}
		}
	}
	return ""
}

// Strategy is one way of pulling records out of a page
type Strategy[T any] struct {
	Name    string
	Extract func(doc *goquery.Document) []T
}

// Chain runs strategies in priority order and returns the first non-empty result
// together with the name of the strategy that produced it.
func Chain[T any](doc *goquery.Document, strategies ...Strategy[T]) ([]T, string) {
	for _, strategy := range strategies {
		if records := strategy.Extract(doc); len(records) > 0 {
			return records, strategy.Name
		}
	}
	return nil, ""
}
