package adapters

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

// rawProduct is one listing as read from the page, before normalization
type rawProduct struct {
	Name          string
	Price         string
	OriginalPrice string
	Image         string
	Link          string
	Text          string // full card text, used for stock markers
}

// jsonLDProducts reads schema.org Product entries from ld+json blocks,
// including products nested in @graph arrays and ItemList elements.
func jsonLDProducts(doc *goquery.Document) []rawProduct {
	var products []rawProduct

	doc.Find("script[type='application/ld+json']").Each(func(i int, s *goquery.Selection) {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return
		}
		var data interface{}
		if err := json.Unmarshal([]byte(content), &data); err != nil {
			return
		}
		collectLDProducts(data, &products)
	})

	return products
}

func collectLDProducts(v interface{}, out *[]rawProduct) {
	switch node := v.(type) {
	case []interface{}:
		for _, child := range node {
			collectLDProducts(child, out)
		}
	case map[string]interface{}:
		if hasLDType(node["@type"], "Product") {
			*out = append(*out, ldProduct(node))
			return
		}
		for _, key := range []string{"@graph", "itemListElement", "item"} {
			if child, ok := node[key]; ok {
				collectLDProducts(child, out)
			}
		}
	}
}

func hasLDType(v interface{}, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func ldProduct(node map[string]interface{}) rawProduct {
	raw := rawProduct{
		Name:  ldString(node["name"]),
		Image: ldString(node["image"]),
		Link:  ldString(node["url"]),
	}

	offer := node["offers"]
	if list, ok := offer.([]interface{}); ok && len(list) > 0 {
		offer = list[0]
	}
	if o, ok := offer.(map[string]interface{}); ok {
		raw.Price = ldPrice(o["price"])
		if raw.Price == "" {
			raw.Price = ldPrice(o["lowPrice"])
		}
		availability := ldString(o["availability"])
		switch {
		case strings.HasSuffix(availability, "OutOfStock"), strings.HasSuffix(availability, "SoldOut"):
			raw.Text = "out of stock"
		case strings.HasSuffix(availability, "LimitedAvailability"):
			raw.Text = "limited stock"
		}
	}

	return raw
}

// ldString reads a JSON-LD value that may be a string, a list, or an object with a url
func ldString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		if len(t) > 0 {
			return ldString(t[0])
		}
	case map[string]interface{}:
		if u, ok := t["url"]; ok {
			return ldString(u)
		}
		if u, ok := t["@id"]; ok {
			return ldString(u)
		}
	}
	return ""
}

func ldPrice(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("$%.2f", t)
	case string:
		return t
	}
	return ""
}

var addressPattern = regexp.MustCompile(`(?i)\d+\s+[a-z ]+?\b(?:St|Ave|Rd|Blvd|Dr|Way|Ln)\b\.?`)

// textStore scans page text for an address-like string close to one of the retailer keywords
func textStore(doc *goquery.Document, retailer types.Retailer, zip string, keywords []string) []types.Store {
	var stores []types.Store

	doc.Find("body *").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := utils.CleanText(s.Text())
		if text == "" || len(text) > 500 {
			return true
		}
		lower := strings.ToLower(text)
		for _, keyword := range keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if address := addressPattern.FindString(text); address != "" {
				stores = append(stores, types.Store{
					ID:      retailer.Key + "-" + zip,
					Name:    retailer.Name,
					Address: strings.TrimSpace(address),
				})
				return false
			}
		}
		return true
	})

	return stores
}
