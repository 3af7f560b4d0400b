package adapters

import (
	"context"
	"fmt"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

var savemartSelectors = SelectorSet{
	TargetStoreCards:    {`.store-card`, `.store-item`, `.location-card`, `[data-testid="store"]`},
	TargetStoreName:     {`h3`, `h4`, `.store-name`, `.location-name`},
	TargetStoreAddress:  {`.address`, `.store-address`, `.location-address`},
	TargetStoreDistance: {`.distance`, `.store-distance`},
	TargetProductCards: {
		`.coupon-item`,
		`.deal-item`,
		`.product-card`,
		`.offer-card`,
		`.promotion-card`,
	},
	TargetProductName: {`h3`, `h4`, `.product-title`, `.coupon-title`, `.deal-title`, `.offer-title`},
	// coupons often carry the amount only in their description
	TargetProductPrice: {
		`.price`,
		`.sale-price`,
		`.discount-price`,
		`.offer-price`,
		`.description`,
		`.coupon-description`,
		`.deal-description`,
	},
	TargetOriginalPrice: {`.original-price`, `.regular-price`, `.was-price`},
	TargetProductImage:  {`img`},
	TargetProductLink:   {`a`},
	TargetLocationOpen:  {`.store-selector`, `[data-testid="store-selector"]`},
	TargetLocationInput: {`input[placeholder*="ZIP"]`, `input[placeholder*="zip"]`},
}

var _ types.Extractor = (*SaveMartAdapter)(nil)

// SaveMartAdapter handles extraction for savemart.com coupons and deals
type SaveMartAdapter struct {
	*BaseAdapter
}

// NewSaveMartAdapter creates a new Save Mart adapter
func NewSaveMartAdapter(deps Deps) *SaveMartAdapter {
	return &SaveMartAdapter{
		BaseAdapter: NewBaseAdapter(types.SaveMart, savemartSelectors, deps),
	}
}

// FindStores searches the Save Mart store list by ZIP code
func (s *SaveMartAdapter) FindStores(ctx context.Context, zip string) []types.Store {
	s.logger.Infof("Finding Save Mart stores near ZIP: %s", zip)
	return s.findStores(ctx, zip, storePage{
		URL:      "https://savemart.com/stores/",
		Submit:   true,
		Limit:    3,
		Keywords: []string{"save mart"},
	})
}

// SearchProducts reads the coupon page and filters it by the query
func (s *SaveMartAdapter) SearchProducts(ctx context.Context, query, zip string, store types.Store) ([]types.Product, error) {
	s.logger.Infof("Scraping Save Mart deals for ZIP: %s", zip)

	doc, err := s.Navigate(ctx, "https://savemart.com/coupons/")
	if err != nil {
		return nil, fmt.Errorf("failed to load Save Mart coupons: %w", err)
	}
	doc = s.setLocation(ctx, doc, zip)

	products := s.extractProducts(doc, store, productPage{Limit: 15})
	return utils.FilterByQuery(products, query, 8), nil
}

// ScrapeInventory runs the full Save Mart pipeline
func (s *SaveMartAdapter) ScrapeInventory(ctx context.Context, query, zip string) (*types.InventoryResponse, error) {
	return s.scrapeInventory(ctx, s, query, zip)
}
