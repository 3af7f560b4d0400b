package utils

import (
	"strings"

	"grocery-scraper/internal/types"
)

// DefaultQuery is the generic search term that disables query filtering
const DefaultQuery = "food"

// IsDefaultQuery reports whether query is empty or the generic default term
func IsDefaultQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return q == "" || q == DefaultQuery
}

// FilterByQuery keeps products whose name or category contains the query.
// When nothing matches it widens back to the first widen products so that a
// non-empty input never filters down to an empty result.
func FilterByQuery(products []types.Product, query string, widen int) []types.Product {
	if IsDefaultQuery(query) || len(products) == 0 {
		return products
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var filtered []types.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > 0 {
		return filtered
	}

	if widen <= 0 || widen > len(products) {
		widen = len(products)
	}
	return products[:widen]
}

// RemoveDuplicateProducts drops products whose id was already seen, keeping discovery order
func RemoveDuplicateProducts(products []types.Product) []types.Product {
	seen := make(map[string]bool)
	var unique []types.Product

	for _, p := range products {
		if !seen[p.ID] {
			seen[p.ID] = true
			unique = append(unique, p)
		}
	}

	return unique
}
