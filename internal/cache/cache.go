package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"grocery-scraper/internal/types"
)

// InventoryCache keeps recent inventory responses per (store, query, zip).
// Entries expire after the TTL; the least recently used entry is evicted when full.
type InventoryCache struct {
	lru *expirable.LRU[RequestKey, *types.InventoryResponse]
}

// New creates a cache holding at most size entries for ttl
func New(size int, ttl time.Duration) *InventoryCache {
	if size <= 0 {
		size = 256
	}
	return &InventoryCache{
		lru: expirable.NewLRU[RequestKey, *types.InventoryResponse](size, nil, ttl),
	}
}

// RequestKey identifies one inventory request. Distinct tuples never share a key.
type RequestKey struct {
	Store string
	Query string
	Zip   string
}

// Key builds the cache key. Store names are compared case-insensitively.
func Key(store, query, zip string) RequestKey {
	return RequestKey{
		Store: strings.ToLower(strings.TrimSpace(store)),
		Query: query,
		Zip:   zip,
	}
}

// Get returns the cached response for key, if it has not expired
func (c *InventoryCache) Get(key RequestKey) (*types.InventoryResponse, bool) {
	return c.lru.Get(key)
}

// Add stores resp under key
func (c *InventoryCache) Add(key RequestKey, resp *types.InventoryResponse) {
	c.lru.Add(key, resp)
}

// Len returns the number of live entries
func (c *InventoryCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry
func (c *InventoryCache) Purge() {
	c.lru.Purge()
}
