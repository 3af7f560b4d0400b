package adapters

import (
	"context"
	"fmt"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

var safewaySelectors = SelectorSet{
	TargetStoreCards: {
		`.store-card`,
		`.store-item`,
		`.location-card`,
		`[data-testid="store"]`,
	},
	TargetStoreName:     {`h3`, `h4`, `.store-name`, `.location-name`},
	TargetStoreAddress:  {`.address`, `.store-address`, `.location-address`},
	TargetStoreDistance: {`.store-distance`, `.distance`},
	TargetProductCards: {
		`[data-testid="product-card"]`,
		`.product-card`,
		`.product-item`,
		`.sale-item`,
	},
	TargetProductName:   {`h3`, `.product-title`, `.product-name`, `[data-testid="product-title"]`},
	TargetProductPrice:  {`.sale-price`, `.price`, `[data-testid="price"]`},
	TargetOriginalPrice: {`.original-price`, `.regular-price`, `.was-price`},
	TargetProductImage:  {`img`},
	TargetProductLink:   {`a`},
	TargetLocationOpen:  {`[data-testid="store-selector"]`},
	TargetLocationInput: {
		`input[placeholder*="ZIP"]`,
		`input[placeholder*="zip"]`,
		`input[name*="zip"]`,
		`#store-search-input`,
	},
}

var _ types.Extractor = (*SafewayAdapter)(nil)

// SafewayAdapter handles extraction for safeway.com. Products come from the weekly sale page.
type SafewayAdapter struct {
	*BaseAdapter
}

// NewSafewayAdapter creates a new Safeway adapter
func NewSafewayAdapter(deps Deps) *SafewayAdapter {
	return &SafewayAdapter{
		BaseAdapter: NewBaseAdapter(types.Safeway, safewaySelectors, deps),
	}
}

// FindStores searches the Safeway store locator by ZIP code
func (s *SafewayAdapter) FindStores(ctx context.Context, zip string) []types.Store {
	s.logger.Infof("Finding Safeway stores near ZIP: %s", zip)
	return s.findStores(ctx, zip, storePage{
		URL:      "https://www.safeway.com/stores/",
		Submit:   true,
		Limit:    5,
		Keywords: []string{"safeway"},
	})
}

// SearchProducts reads the sale page and filters it by the query
func (s *SafewayAdapter) SearchProducts(ctx context.Context, query, zip string, store types.Store) ([]types.Product, error) {
	s.logger.Infof("Scraping Safeway deals for ZIP: %s", zip)

	doc, err := s.Navigate(ctx, "https://www.safeway.com/shop/deals/sale-prices.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load Safeway deals: %w", err)
	}
	doc = s.setLocation(ctx, doc, zip)

	products := s.extractProducts(doc, store, productPage{Limit: 20})
	return utils.FilterByQuery(products, query, 10), nil
}

// ScrapeInventory runs the full Safeway pipeline
func (s *SafewayAdapter) ScrapeInventory(ctx context.Context, query, zip string) (*types.InventoryResponse, error) {
	return s.scrapeInventory(ctx, s, query, zip)
}
