package adapters

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"grocery-scraper/fallback"
	"grocery-scraper/internal/metrics"
	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

// Deps carries the collaborators shared by every adapter.
// Zero values are filled with working defaults by NewBaseAdapter.
type Deps struct {
	Config   *types.Config
	Logger   types.Logger
	Sessions utils.SessionFactory
	Fallback *fallback.Provider
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// BaseAdapter provides the pipeline and extraction helpers that every retailer adapter composes.
// One instance serves one scrape call and owns at most one session at a time.
type BaseAdapter struct {
	retailer  types.Retailer
	selectors SelectorSet
	config    *types.Config
	logger    types.Logger
	sessions  utils.SessionFactory
	fallback  *fallback.Provider
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.Mutex
	session utils.Session
}

// NewBaseAdapter creates the shared part of a retailer adapter
func NewBaseAdapter(retailer types.Retailer, builtin SelectorSet, deps Deps) *BaseAdapter {
	config := deps.Config
	if config == nil {
		config = types.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Sessions == nil {
		deps.Sessions = utils.NewSessionFactory(config, deps.Logger)
	}
	if deps.Fallback == nil {
		deps.Fallback = fallback.NewProvider(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &BaseAdapter{
		retailer:  retailer,
		selectors: builtin.With(config.Selectors[retailer.Key]),
		config:    config,
		logger:    deps.Logger,
		sessions:  deps.Sessions,
		fallback:  deps.Fallback,
		metrics:   deps.Metrics,
		now:       deps.Now,
	}
}

// RetailerName returns the display name of the retailer
func (b *BaseAdapter) RetailerName() string {
	return b.retailer.Name
}

// Retailer returns the retailer description
func (b *BaseAdapter) Retailer() types.Retailer {
	return b.retailer
}

// Selectors returns the effective cascades, overrides included
func (b *BaseAdapter) Selectors() SelectorSet {
	return b.selectors
}

// Navigate loads a page in the adapter's session, opening the session on first use
func (b *BaseAdapter) Navigate(ctx context.Context, pageURL string) (*goquery.Document, error) {
	session, err := b.openSession(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Debugf("Navigating to %s", pageURL)
	return session.Navigate(ctx, pageURL)
}

// Submit fills a ZIP-style form on the current page
func (b *BaseAdapter) Submit(ctx context.Context, form utils.Form) (*goquery.Document, error) {
	session, err := b.openSession(ctx)
	if err != nil {
		return nil, err
	}
	return session.Submit(ctx, form)
}

func (b *BaseAdapter) openSession(ctx context.Context) (utils.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != nil {
		return b.session, nil
	}
	session, err := b.sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session: %w", b.config.Driver, err)
	}
	b.session = session
	return session, nil
}

// Close releases the session if one is open. It is safe to call more than once.
func (b *BaseAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return nil
	}
	err := b.session.Close()
	b.session = nil
	return err
}

// stages is the per-retailer part of the scrape pipeline
type stages interface {
	FindStores(ctx context.Context, zip string) []types.Store
	SearchProducts(ctx context.Context, query, zip string, store types.Store) ([]types.Product, error)
}

// scrapeInventory runs the full pipeline for one retailer: find a store near
// zip, search it for query and package the result.
// In fallback-only run mode no session is opened and the fallback catalog is
// returned directly. Otherwise the live run owns the session and closes it on
// every exit. Automation failures of any kind, including panics and empty
// extractions, are replaced by fallback data, so the returned error is always
// nil. Each run records one scrape observation tagged live or fallback.
func (b *BaseAdapter) scrapeInventory(ctx context.Context, s stages, query, zip string) (*types.InventoryResponse, error) {
	start := time.Now()

	// Constrained environments skip the browser entirely
	if b.config.RunMode == types.RunModeFallbackOnly {
		b.logger.Infof("Using fallback data for %s (run mode %s)", b.retailer.Name, b.config.RunMode)
		resp := b.fallback.Inventory(b.retailer, query, zip, b.now())
		b.metrics.IncFallback(b.retailer.Key, "run_mode")
		b.metrics.ObserveScrape(b.retailer.Key, "fallback", resp.TotalResults, time.Since(start))
		return resp, nil
	}

	defer func() {
		if err := b.Close(); err != nil {
			b.logger.Warnf("Failed to close %s session: %v", b.retailer.Name, err)
		}
	}()

	// Live attempt, degrading to fallback data on any failure
	source := "live"
	resp, err := b.runLive(ctx, s, query, zip)
	if err != nil {
		b.logger.Warnf("Browser automation failed for %s, using fallback data: %v", b.retailer.Name, err)
		b.metrics.IncFallback(b.retailer.Key, types.ErrorLabel(err))
		resp = b.fallback.Inventory(b.retailer, query, zip, b.now())
		source = "fallback"
	}

	b.logger.Infof("Scraped %d %s products for %q near %s (%s) in %v",
		resp.TotalResults, b.retailer.Name, query, zip, source, time.Since(start))
	b.metrics.ObserveScrape(b.retailer.Key, source, resp.TotalResults, time.Since(start))
	return resp, nil
}

func (b *BaseAdapter) runLive(ctx context.Context, s stages, query, zip string) (resp *types.InventoryResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during %s scrape: %v", b.retailer.Name, r)
		}
	}()

	stores := s.FindStores(ctx, zip)
	store := b.fallback.Store(b.retailer, zip)
	if len(stores) > 0 {
		store = stores[0]
	}

	products, err := s.SearchProducts(ctx, query, zip, store)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%s search for %q: %w", b.retailer.Name, query, types.ErrEmptyExtraction)
	}

	return types.NewInventoryResponse(query, zip, store, products, b.now()), nil
}

// storePage describes a store-locator page
type storePage struct {
	URL      string
	Submit   bool     // type the ZIP into the locator form after loading
	Limit    int      // maximum number of stores kept
	Keywords []string // lowercase phrases for the text heuristic
}

// findStores loads the retailer's store-locator page and returns the stores it
// lists near zip. When page.Submit is set the ZIP is typed into the locator
// form first; a form that cannot be filled leaves the loaded page in place.
// Stores are taken from the card cascade, then from the page-text heuristic,
// and finally a synthetic store is used, so the result is never empty.
// Navigation errors are logged and also yield the synthetic store.
func (b *BaseAdapter) findStores(ctx context.Context, zip string, page storePage) []types.Store {
	synthetic := []types.Store{b.fallback.Store(b.retailer, zip)}

	doc, err := b.Navigate(ctx, page.URL)
	if err != nil {
		b.logger.Warnf("Error finding %s stores: %v", b.retailer.Name, err)
		return synthetic
	}

	// Narrow the locator to the shopper's ZIP
	if page.Submit {
		if submitted, err := b.Submit(ctx, b.locationForm(zip)); err == nil {
			doc = submitted
		} else {
			b.logger.Debugf("Could not search %s stores by ZIP: %v", b.retailer.Name, err)
		}
	}

	// Cards first, then the text heuristic
	stores, strategy := Chain(doc,
		Strategy[types.Store]{Name: "cards", Extract: func(doc *goquery.Document) []types.Store {
			return b.storeCards(doc, zip, page.Limit)
		}},
		Strategy[types.Store]{Name: "text", Extract: func(doc *goquery.Document) []types.Store {
			return textStore(doc, b.retailer, zip, page.Keywords)
		}},
	)
	if len(stores) == 0 {
		b.logger.Debugf("No %s stores found on page, using synthetic store", b.retailer.Name)
		b.metrics.IncSelectorHit(b.retailer.Key, "stores", "synthetic")
		return synthetic
	}

	b.metrics.IncSelectorHit(b.retailer.Key, "stores", strategy)
	b.logger.Infof("Found %d %s stores via %s", len(stores), b.retailer.Name, strategy)
	return stores
}

func (b *BaseAdapter) storeCards(doc *goquery.Document, zip string, limit int) []types.Store {
	cards, selector := FirstMatch(doc.Selection, b.selectors[TargetStoreCards])
	if cards.Length() == 0 {
		return nil
	}
	b.logger.Debugf("Found %s stores using selector: %s", b.retailer.Name, selector)

	var stores []types.Store
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && len(stores) >= limit {
			return false
		}

		name := TextOf(card, b.selectors[TargetStoreName])
		address := TextOf(card, b.selectors[TargetStoreAddress])
		if name == "" && address == "" {
			return true
		}

		if name == "" {
			name = b.retailer.Name
		} else if !strings.Contains(strings.ToLower(name), strings.ToLower(b.retailer.Name)) {
			name = b.retailer.Name + " - " + name
		}
		if address == "" {
			address = "Near " + zip
		}

		id := utils.CleanText(card.AttrOr("data-store-id", ""))
		if id == "" {
			id = fmt.Sprintf("%s-%s-%d", b.retailer.Key, zip, i)
		}

		stores = append(stores, types.Store{
			ID:       id,
			Name:     name,
			Address:  address,
			Distance: TextOf(card, b.selectors[TargetStoreDistance]),
		})
		return true
	})

	return stores
}

// locationForm builds the ZIP form from the location cascades
func (b *BaseAdapter) locationForm(zip string) utils.Form {
	return utils.Form{
		Open:   b.selectors[TargetLocationOpen],
		Inputs: b.selectors[TargetLocationInput],
		Value:  zip,
	}
}

// setLocation tries to point the current page at the shopper's ZIP code.
// Failure is logged and the unchanged page is returned.
func (b *BaseAdapter) setLocation(ctx context.Context, doc *goquery.Document, zip string) *goquery.Document {
	located, err := b.Submit(ctx, b.locationForm(zip))
	if err != nil {
		b.logger.Debugf("Could not set %s location, continuing with default location: %v", b.retailer.Name, err)
		return doc
	}
	return located
}

// productPage describes how listings on a search or deals page are turned into products
type productPage struct {
	Limit        int
	DefaultPrice string // used when a card has a name but no readable price
}

// extractProducts turns a loaded search or deals page into products.
// Raw records come from the first strategy that yields any: product cards
// matched by the retailer's selector cascades, then JSON-LD Product and
// ItemList blocks. Each record is normalized against store and page, and
// records without a usable name and price are dropped. At most page.Limit
// products are kept, duplicates are removed, and nil means nothing matched.
func (b *BaseAdapter) extractProducts(doc *goquery.Document, store types.Store, page productPage) []types.Product {
	// Step 1: collect raw records
	raws, strategy := Chain(doc,
		Strategy[rawProduct]{Name: "cards", Extract: b.productCards},
		Strategy[rawProduct]{Name: "json-ld", Extract: jsonLDProducts},
	)
	if len(raws) == 0 {
		b.logger.Debugf("No %s products found with any selector", b.retailer.Name)
		return nil
	}
	b.metrics.IncSelectorHit(b.retailer.Key, "products", strategy)

	// Step 2: normalize up to the page limit
	var products []types.Product
	for _, raw := range raws {
		if page.Limit > 0 && len(products) >= page.Limit {
			break
		}
		if product, ok := b.normalize(doc, raw, store, page); ok {
			products = append(products, product)
		}
	}

	// Step 3: drop duplicates
	products = utils.RemoveDuplicateProducts(products)
	b.logger.Debugf("Extracted %d %s products via %s", len(products), b.retailer.Name, strategy)
	return products
}

func (b *BaseAdapter) productCards(doc *goquery.Document) []rawProduct {
	cards, selector := FirstMatch(doc.Selection, b.selectors[TargetProductCards])
	if cards.Length() == 0 {
		return nil
	}
	b.logger.Debugf("Found %s products using selector: %s", b.retailer.Name, selector)

	raws := make([]rawProduct, 0, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		raws = append(raws, rawProduct{
			Name:          TextOf(card, b.selectors[TargetProductName]),
			Price:         TextOf(card, b.selectors[TargetProductPrice]),
			OriginalPrice: TextOf(card, b.selectors[TargetOriginalPrice]),
			Image:         AttrOf(card, b.selectors[TargetProductImage], "src", "data-src", "srcset"),
			Link:          AttrOf(card, b.selectors[TargetProductLink], "href"),
			Text:          utils.CleanText(card.Text()),
		})
	})
	return raws
}

// normalize converts one raw record; records without a usable name and price are rejected
func (b *BaseAdapter) normalize(doc *goquery.Document, raw rawProduct, store types.Store, page productPage) (types.Product, bool) {
	name := utils.CleanText(raw.Name)
	if name == "" {
		return types.Product{}, false
	}

	price, ok := utils.FormatPrice(raw.Price)
	if !ok {
		if page.DefaultPrice == "" {
			return types.Product{}, false
		}
		price = page.DefaultPrice
	}

	var originalPrice string
	if original, ok := utils.FormatPrice(raw.OriginalPrice); ok && original != price {
		originalPrice = original
	}

	imageURL := utils.ResolveURL(doc.Url, firstSrcsetURL(raw.Image))
	if imageURL == "" {
		imageURL = b.fallback.Image(b.retailer)
	}

	link := utils.ResolveURL(doc.Url, raw.Link)
	if link == "" {
		link = b.retailer.Homepage
	}

	return types.Product{
		ID:            utils.GenerateProductID(name, store.ID),
		Name:          name,
		Price:         price,
		OriginalPrice: originalPrice,
		ImageURL:      imageURL,
		Availability:  utils.DetectAvailability(raw.Text),
		URL:           link,
		Category:      utils.CategorizeProduct(name),
	}, true
}

// firstSrcsetURL reduces a srcset value ("a.jpg 1x, b.jpg 2x") to its first URL
func firstSrcsetURL(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.Index(value, ","); i >= 0 && strings.Contains(value[:i], " ") {
		value = value[:i]
	}
	if fields := strings.Fields(value); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
