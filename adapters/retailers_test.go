package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-scraper/internal/types"
)

const (
	safewayStoresURL = "https://www.safeway.com/stores/"
	safewayDealsURL  = "https://www.safeway.com/shop/deals/sale-prices.html"
	savemartCoupons  = "https://savemart.com/coupons/"
	traderJoesList   = "https://www.traderjoes.com/home/products"
)

const safewayDealsPage = `<html><body>
	<div class="product-card">
		<a href="/shop/product-details.960012345.html"><h3>Lucerne Whole Milk, 1 gal</h3></a>
		<span class="sale-price">$3.49</span><span class="was-price">$4.99</span>
		<img src="https://images.albertsons-media.com/milk.jpg">
	</div>
	<div class="product-card"><h3>Signature Bagels 6 ct</h3><span class="price">2 for $5</span></div>
	<div class="product-card"><h3>Honeycrisp Apples</h3><span class="price">$1.99/lb</span><span>Only 4 left</span></div>
</body></html>`

func TestSafeway_ScrapeInventory_Live(t *testing.T) {
	session := &fakeSession{
		pages: map[string]string{
			safewayStoresURL: `<html><body><input placeholder="Enter ZIP"></body></html>`,
			safewayDealsURL:  safewayDealsPage,
		},
		submitted: map[string]string{
			safewayStoresURL: `<html><body>
				<div class="store-card"><h3>Davis</h3><p class="address">1451 W Covell Blvd</p></div>
			</body></html>`,
		},
	}
	factory := &fakeFactory{session: session}
	adapter := NewSafewayAdapter(testDeps(factory))

	resp, err := adapter.ScrapeInventory(context.Background(), "milk", "95616")

	require.NoError(t, err)
	assert.Equal(t, types.Store{ID: "safeway-95616-0", Name: "Safeway - Davis", Address: "1451 W Covell Blvd"}, resp.Store)

	require.Len(t, resp.Products, 1)
	milk := resp.Products[0]
	assert.Equal(t, "$3.49", milk.Price)
	assert.Equal(t, "$4.99", milk.OriginalPrice)
	assert.Equal(t, "https://www.safeway.com/shop/product-details.960012345.html", milk.URL)
	assert.Equal(t, "dairy", milk.Category)

	// one submit on the locator, one location attempt on the deals page
	require.Len(t, session.submits, 2)
	assert.Equal(t, "95616", session.submits[1].Value)
	assert.Equal(t, []string{`[data-testid="store-selector"]`}, session.submits[1].Open)
	assert.Equal(t, 1, session.closed)
}

func TestSafeway_SearchProducts_WidensOverFilteredQuery(t *testing.T) {
	session := &fakeSession{pages: map[string]string{safewayDealsURL: safewayDealsPage}}
	adapter := NewSafewayAdapter(testDeps(&fakeFactory{session: session}))
	defer adapter.Close()

	products, err := adapter.SearchProducts(context.Background(), "caviar", "95616", types.Store{ID: "safeway-95616"})

	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "$5.00", products[1].Price)
	assert.Equal(t, "bakery", products[1].Category)
	assert.Equal(t, types.Limited, products[2].Availability)
	assert.Equal(t, "produce", products[2].Category)
}

func TestSaveMart_CouponsWithDescriptionPrices(t *testing.T) {
	page := `<html><body>
		<div class="coupon-item"><h4 class="coupon-title">Yoplait Yogurt</h4><p class="coupon-description">Save $1.50 on any 4</p></div>
		<div class="coupon-item"><h4 class="coupon-title">Digital coupon</h4><p class="coupon-description">Load to card</p></div>
		<div class="coupon-item"><h4 class="coupon-title">Cage Free Eggs</h4><p class="coupon-description">Save 50% on eggs</p></div>
		<div class="coupon-item"><h4 class="coupon-title">Fresh Atlantic Salmon</h4><span class="offer-price">$8.99/lb</span></div>
	</body></html>`
	session := &fakeSession{pages: map[string]string{savemartCoupons: page}}
	adapter := NewSaveMartAdapter(testDeps(&fakeFactory{session: session}))

	resp, err := adapter.ScrapeInventory(context.Background(), "food", "95616")

	require.NoError(t, err)
	assert.Equal(t, "savemart-95616", resp.Store.ID, "no locator page means the synthetic store")
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "$1.50", resp.Products[0].Price)
	assert.Equal(t, "dairy", resp.Products[0].Category)
	assert.Equal(t, "seafood", resp.Products[1].Category)
	assert.Equal(t, "https://savemart.com", resp.Products[1].URL)
}

func TestTraderJoes_DefaultPriceAndXPathCards(t *testing.T) {
	page := `<html><body><main>
		<article class="ProductCard_card__4Gx"><h2>ignored</h2><h3>Cauliflower Gnocchi</h3><a href="/home/products/pdp/cauliflower-gnocchi-064326">view</a></article>
		<article class="ProductCard_card__4Gx"><h3>Unexpected Cheddar Cheese</h3><span class="price">$4.29</span></article>
	</main></body></html>`
	session := &fakeSession{pages: map[string]string{traderJoesList: page}}
	adapter := NewTraderJoesAdapter(testDeps(&fakeFactory{session: session}))

	resp, err := adapter.ScrapeInventory(context.Background(), "", "95616")

	require.NoError(t, err)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "$3.99", resp.Products[0].Price)
	assert.Equal(t, "frozen", resp.Products[0].Category)
	assert.Equal(t, "https://www.traderjoes.com/home/products/pdp/cauliflower-gnocchi-064326", resp.Products[0].URL)
	assert.Equal(t, "$4.29", resp.Products[1].Price)
	assert.Equal(t, "dairy", resp.Products[1].Category)
}

func TestTraderJoes_QueryWidensToFour(t *testing.T) {
	page := `<html><body>
		<div class="product-card"><h3>A Bread</h3></div>
		<div class="product-card"><h3>B Bread</h3></div>
		<div class="product-card"><h3>C Bread</h3></div>
		<div class="product-card"><h3>D Bread</h3></div>
		<div class="product-card"><h3>E Bread</h3></div>
	</body></html>`
	session := &fakeSession{pages: map[string]string{traderJoesList: page}}
	adapter := NewTraderJoesAdapter(testDeps(&fakeFactory{session: session}))
	defer adapter.Close()

	products, err := adapter.SearchProducts(context.Background(), "wine", "95616", types.Store{ID: "traderjoes-95616"})

	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestRetailerNames(t *testing.T) {
	deps := testDeps(&fakeFactory{})

	assert.Equal(t, "Walmart", NewWalmartAdapter(deps).RetailerName())
	assert.Equal(t, "Safeway", NewSafewayAdapter(deps).RetailerName())
	assert.Equal(t, "Save Mart", NewSaveMartAdapter(deps).RetailerName())
	assert.Equal(t, "Trader Joe's", NewTraderJoesAdapter(deps).RetailerName())
}
