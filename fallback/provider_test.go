package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

type fixedRandom int

func (f fixedRandom) Intn(n int) int { return int(f) % n }

func TestCatalogSizes(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	assert.Len(t, p.Catalog(types.Walmart), 3)
	assert.Len(t, p.Catalog(types.Safeway), 3)
	assert.Len(t, p.Catalog(types.SaveMart), 3)
	assert.Len(t, p.Catalog(types.TraderJoes), 6)
}

func TestCatalog_UnknownRetailerUsesWalmart(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	assert.Equal(t, p.Catalog(types.Walmart), p.Catalog(types.Retailer{Key: "costco", Name: "Costco"}))
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	items := p.Catalog(types.Walmart)
	items[0].Name = "mutated"

	assert.NotEqual(t, "mutated", p.Catalog(types.Walmart)[0].Name)
}

func TestStore(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	store := p.Store(types.TraderJoes, "95616")

	assert.Equal(t, types.Store{ID: "traderjoes-95616", Name: "Trader Joe's", Address: "Near 95616"}, store)
}

func TestProducts_AvailabilityPattern(t *testing.T) {
	p := NewProvider(fixedRandom(0))
	store := p.Store(types.TraderJoes, "95616")

	products := p.Products(types.TraderJoes, store, "food")

	require.Len(t, products, 6)
	for i, product := range products {
		if i%3 == 0 {
			assert.Equal(t, types.Limited, product.Availability, product.Name)
		} else {
			assert.Equal(t, types.InStock, product.Availability, product.Name)
		}
	}
}

func TestProducts_Shape(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	for _, retailer := range types.Retailers() {
		store := p.Store(retailer, "95616")
		for _, product := range p.Products(retailer, store, "") {
			assert.Equal(t, utils.GenerateProductID(product.Name, store.ID), product.ID)
			assert.True(t, utils.IsAbsoluteHTTPURL(product.ImageURL), product.ImageURL)
			assert.True(t, utils.IsAbsoluteHTTPURL(product.URL), product.URL)
			assert.True(t, strings.HasPrefix(product.Price, "$"))
			assert.NotEmpty(t, product.OriginalPrice)
			assert.NotEmpty(t, product.Category)
		}
	}
}

func TestProducts_URLs(t *testing.T) {
	p := NewProvider(fixedRandom(0))

	walmart := p.Products(types.Walmart, p.Store(types.Walmart, "95616"), "")
	assert.Equal(t, "https://www.walmart.com", walmart[0].URL)

	tj := p.Products(types.TraderJoes, p.Store(types.TraderJoes, "95616"), "")
	assert.Contains(t, tj[0].URL, "/home/products/pdp/")
}

func TestProducts_QueryFilter(t *testing.T) {
	p := NewProvider(fixedRandom(0))
	store := p.Store(types.Walmart, "95616")

	milk := p.Products(types.Walmart, store, "milk")
	require.Len(t, milk, 1)
	assert.Equal(t, "dairy", milk[0].Category)
	assert.Equal(t, types.Limited, milk[0].Availability, "availability follows catalog position, not filtered position")

	produce := p.Products(types.Walmart, store, "produce")
	require.Len(t, produce, 1)
	assert.Equal(t, "Bananas, each", produce[0].Name)

	assert.Len(t, p.Products(types.Walmart, store, "caviar"), 3)
}

func TestInventory(t *testing.T) {
	p := NewProvider(fixedRandom(0))
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	resp := p.Inventory(types.Walmart, "milk", "95616", now)

	assert.Equal(t, "milk", resp.Query)
	assert.Equal(t, "95616", resp.Zip)
	assert.Equal(t, "Walmart", resp.Store.Name)
	assert.Equal(t, "walmart-95616", resp.Store.ID)
	assert.Equal(t, len(resp.Products), resp.TotalResults)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", resp.Timestamp)
	assert.NotEmpty(t, resp.Products)
}

func TestImage(t *testing.T) {
	assert.Equal(t, images[types.SaveMart.Key][2], NewProvider(fixedRandom(2)).Image(types.SaveMart))
	assert.Equal(t, images[types.Walmart.Key][1], NewProvider(fixedRandom(1)).Image(types.Retailer{Key: "unknown"}))

	p := NewProvider(nil)
	for i := 0; i < 20; i++ {
		assert.True(t, utils.IsAbsoluteHTTPURL(p.Image(types.TraderJoes)))
	}
}
