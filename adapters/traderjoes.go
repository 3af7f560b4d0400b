package adapters

import (
	"context"
	"fmt"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

var traderjoesSelectors = SelectorSet{
	TargetStoreCards:    {`.store-card`, `.store-item`, `.location-card`, `[data-testid="store"]`},
	TargetStoreName:     {`h3`, `h4`, `.store-name`, `.location-name`},
	TargetStoreAddress:  {`.address`, `.store-address`, `.location-address`},
	TargetStoreDistance: {`.distance`, `.store-distance`},
	TargetProductCards: {
		`.product-card`,
		`.product-item`,
		`.product-tile`,
		`[data-testid="product"]`,
		`xpath://article[contains(@class, "ProductCard")]`,
	},
	TargetProductName:   {`h3`, `h4`, `.product-title`, `.product-name`},
	TargetProductPrice:  {`.price`, `.product-price`},
	TargetOriginalPrice: {`.original-price`, `.was-price`},
	TargetProductImage:  {`img`},
	TargetProductLink:   {`a`},
	TargetLocationInput: {`input[placeholder*="ZIP"]`, `input[placeholder*="zip"]`, `input[name*="search"]`},
}

// Trader Joe's lists most items at one everyday price; cards without a price use this
const traderJoesDefaultPrice = "$3.99"

var _ types.Extractor = (*TraderJoesAdapter)(nil)

// TraderJoesAdapter handles extraction for traderjoes.com product listings
type TraderJoesAdapter struct {
	*BaseAdapter
}

// NewTraderJoesAdapter creates a new Trader Joe's adapter
func NewTraderJoesAdapter(deps Deps) *TraderJoesAdapter {
	return &TraderJoesAdapter{
		BaseAdapter: NewBaseAdapter(types.TraderJoes, traderjoesSelectors, deps),
	}
}

// FindStores searches the Trader Joe's store finder by ZIP code
func (t *TraderJoesAdapter) FindStores(ctx context.Context, zip string) []types.Store {
	t.logger.Infof("Finding Trader Joe's stores near ZIP: %s", zip)
	return t.findStores(ctx, zip, storePage{
		URL:      "https://www.traderjoes.com/home/store-search",
		Submit:   true,
		Limit:    3,
		Keywords: []string{"trader joe"},
	})
}

// SearchProducts reads the product listing and filters it by the query
func (t *TraderJoesAdapter) SearchProducts(ctx context.Context, query, zip string, store types.Store) ([]types.Product, error) {
	t.logger.Infof("Attempting to scrape Trader Joe's for ZIP: %s", zip)

	doc, err := t.Navigate(ctx, "https://www.traderjoes.com/home/products")
	if err != nil {
		return nil, fmt.Errorf("failed to load Trader Joe's products: %w", err)
	}

	products := t.extractProducts(doc, store, productPage{Limit: 15, DefaultPrice: traderJoesDefaultPrice})
	return utils.FilterByQuery(products, query, 4), nil
}

// ScrapeInventory runs the full Trader Joe's pipeline
func (t *TraderJoesAdapter) ScrapeInventory(ctx context.Context, query, zip string) (*types.InventoryResponse, error) {
	return t.scrapeInventory(ctx, t, query, zip)
}
