package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scrapers and the HTTP layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry          *prometheus.Registry
	ScrapesTotal      *prometheus.CounterVec
	ScrapeDuration    *prometheus.HistogramVec
	ProductsTotal     *prometheus.CounterVec
	SelectorHitsTotal *prometheus.CounterVec
	FallbacksTotal    *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_scrapes_total",
			Help: "Total inventory scrapes by retailer and data source.",
		},
		[]string{"retailer", "source"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grocery_scrape_duration_seconds",
			Help:    "Wall time of one inventory scrape.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"retailer"},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_products_extracted_total",
			Help: "Products returned to callers by retailer.",
		},
		[]string{"retailer"},
	)
	selectorHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_selector_hits_total",
			Help: "Which extraction strategy produced records, by retailer and target.",
		},
		[]string{"retailer", "target", "strategy"},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_fallbacks_total",
			Help: "Fallback substitutions by retailer and reason.",
		},
		[]string{"retailer", "reason"},
	)
	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_cache_lookups_total",
			Help: "Inventory cache lookups by result.",
		},
		[]string{"result"},
	)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grocery_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	registry.MustRegister(scrapes, duration, products, selectorHits, fallbacks, cacheLookups, httpRequests)

	return &Metrics{
		Registry:          registry,
		ScrapesTotal:      scrapes,
		ScrapeDuration:    duration,
		ProductsTotal:     products,
		SelectorHitsTotal: selectorHits,
		FallbacksTotal:    fallbacks,
		CacheLookups:      cacheLookups,
		HTTPRequests:      httpRequests,
	}
}

// ObserveScrape records one finished scrape.
func (m *Metrics) ObserveScrape(retailer, source string, products int, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(retailer, source).Inc()
	m.ScrapeDuration.WithLabelValues(retailer).Observe(d.Seconds())
	m.ProductsTotal.WithLabelValues(retailer).Add(float64(products))
}

// IncSelectorHit records which strategy won a cascade.
func (m *Metrics) IncSelectorHit(retailer, target, strategy string) {
	if m == nil {
		return
	}
	m.SelectorHitsTotal.WithLabelValues(retailer, target, strategy).Inc()
}

// IncFallback records a fallback substitution.
func (m *Metrics) IncFallback(retailer, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(retailer, reason).Inc()
}

// IncCache records a cache hit or miss.
func (m *Metrics) IncCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
