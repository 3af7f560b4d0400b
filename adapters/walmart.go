package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

var walmartSelectors = SelectorSet{
	TargetStoreCards: {
		`[data-automation-id="store-details"]`,
		`.store-card`,
		`.store-item`,
		`[data-testid="store-card"]`,
		`.StoreCard`,
	},
	TargetStoreName: {
		`[data-automation-id="store-name"]`,
		`.store-name`,
		`h3`,
		`h2`,
		`[data-testid="store-name"]`,
	},
	TargetStoreAddress: {
		`[data-automation-id="store-address"]`,
		`.store-address`,
		`.address`,
		`[data-testid="store-address"]`,
	},
	TargetStoreDistance: {
		`[data-automation-id="store-distance"]`,
		`.store-distance`,
		`.distance`,
		`[data-testid="store-distance"]`,
	},
	TargetProductCards: {
		`[data-testid="item-stack"] > div`,
		`[data-automation-id="product-tile"]`,
		`.search-result-gridview-item`,
		`[data-testid="list-view"]`,
		`.mb1.ph1.pa0-xl.bb.b--near-white.w-25`,
	},
	TargetProductName: {
		`[data-automation-id="product-title"]`,
		`h3 a`,
		`.product-title-link`,
		`a[data-testid="product-title"]`,
		`.w_DJ`,
	},
	TargetProductPrice: {
		`[data-automation-id="product-price"]`,
		`.price-current`,
		`.price`,
		`[data-testid="price-current"]`,
		`.w_iUH7`,
	},
	TargetOriginalPrice: {
		`[data-automation-id="strikethrough-price"]`,
		`.price-was`,
		`.strike-through`,
	},
	TargetProductImage: {
		`img[data-testid="productTileImage"]`,
		`.product-image img`,
		`img[alt*="product"]`,
		`img`,
	},
	TargetProductLink: {
		`a[data-testid="product-title"]`,
		`h3 a`,
		`.product-title-link`,
		`a[link-identifier]`,
		`a`,
	},
}

var _ types.Extractor = (*WalmartAdapter)(nil)

// WalmartAdapter handles extraction for walmart.com. Search is query-driven on the site itself.
type WalmartAdapter struct {
	*BaseAdapter
}

// NewWalmartAdapter creates a new Walmart adapter
func NewWalmartAdapter(deps Deps) *WalmartAdapter {
	return &WalmartAdapter{
		BaseAdapter: NewBaseAdapter(types.Walmart, walmartSelectors, deps),
	}
}

// FindStores looks up Walmart stores through the store finder
func (w *WalmartAdapter) FindStores(ctx context.Context, zip string) []types.Store {
	w.logger.Infof("Finding Walmart stores near ZIP: %s", zip)
	return w.findStores(ctx, zip, storePage{
		URL:      "https://www.walmart.com/store/finder?location=" + url.QueryEscape(zip),
		Limit:    3,
		Keywords: []string{"walmart supercenter", "neighborhood market"},
	})
}

// SearchProducts runs a site search near the ZIP code
func (w *WalmartAdapter) SearchProducts(ctx context.Context, query, zip string, store types.Store) ([]types.Product, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		term = utils.DefaultQuery
	}
	w.logger.Infof("Searching Walmart for %q near %s", term, zip)

	searchURL := fmt.Sprintf("https://www.walmart.com/search?q=%s&location=%s", url.QueryEscape(term), url.QueryEscape(zip))
	doc, err := w.Navigate(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load Walmart search: %w", err)
	}

	return w.extractProducts(doc, store, productPage{Limit: 20}), nil
}

// ScrapeInventory runs the full Walmart pipeline
func (w *WalmartAdapter) ScrapeInventory(ctx context.Context, query, zip string) (*types.InventoryResponse, error) {
	return w.scrapeInventory(ctx, w, query, zip)
}
