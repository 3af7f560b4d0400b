// Package fallback serves curated per-retailer product data when live
// automation is disabled or fails. Its responses have exactly the same shape
// as live ones.
package fallback

import (
	"math/rand"
	"sync"
	"time"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

// Provider hands out fallback stores, products and images.
// It is safe for concurrent use.
type Provider struct {
	mu     sync.Mutex
	random types.Random
}

// NewProvider creates a provider. A nil random source is replaced by a time-seeded one.
func NewProvider(random types.Random) *Provider {
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Provider{random: random}
}

// Catalog returns a copy of the curated items for a retailer.
// Unknown retailers get the Walmart catalog.
func (p *Provider) Catalog(retailer types.Retailer) []Item {
	items, ok := catalogs[retailer.Key]
	if !ok {
		items = catalogs[types.Walmart.Key]
	}
	return append([]Item(nil), items...)
}

// Store returns the synthetic store used when no real location is known
func (p *Provider) Store(retailer types.Retailer, zip string) types.Store {
	return types.Store{
		ID:      retailer.Key + "-" + zip,
		Name:    retailer.Name,
		Address: "Near " + zip,
	}
}

// Products converts the catalog into products for the given store, filtered by query.
// Every third item, starting with the first, is marked limited.
func (p *Provider) Products(retailer types.Retailer, store types.Store, query string) []types.Product {
	items := p.Catalog(retailer)
	products := make([]types.Product, 0, len(items))

	for i, item := range items {
		availability := types.InStock
		if i%3 == 0 {
			availability = types.Limited
		}
		link := item.URL
		if link == "" {
			link = retailer.Homepage
		}

		products = append(products, types.Product{
			ID:            utils.GenerateProductID(item.Name, store.ID),
			Name:          item.Name,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			ImageURL:      item.ImageURL,
			Availability:  availability,
			URL:           link,
			Category:      item.Category,
		})
	}

	return utils.FilterByQuery(products, query, 0)
}

// Inventory builds a complete fallback response
func (p *Provider) Inventory(retailer types.Retailer, query, zip string, now time.Time) *types.InventoryResponse {
	store := p.Store(retailer, zip)
	return types.NewInventoryResponse(query, zip, store, p.Products(retailer, store, query), now)
}

// Image picks a random stock image for the retailer
func (p *Provider) Image(retailer types.Retailer) string {
	pool, ok := images[retailer.Key]
	if !ok {
		pool = images[types.Walmart.Key]
	}

	p.mu.Lock()
	i := p.random.Intn(len(pool))
	p.mu.Unlock()

	return pool[i]
}
