package quotes

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
)

// cacheEntry is a cached quote.
type cacheEntry struct {
	price     decimal.Decimal
	expiresAt time.Time
}

// priceCache keeps recently fetched quotes so that a burst of requests
// (page loads plus the refresh loop) does not hit the quote endpoint once
// per caller. A nil cache is valid and never hits.
type priceCache struct {
	mu    sync.RWMutex
	store map[model.Ticker]cacheEntry
	ttl   time.Duration
}

func newPriceCache(ttl time.Duration) *priceCache {
	if ttl <= 0 {
		return nil
	}
	return &priceCache{
		store: make(map[model.Ticker]cacheEntry),
		ttl:   ttl,
	}
}

// Get returns a cached price if available and not expired.
func (c *priceCache) Get(ticker model.Ticker, now time.Time) (decimal.Decimal, bool) {
	if c == nil {
		return decimal.Zero, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[ticker]
	if !ok || now.After(entry.expiresAt) {
		return decimal.Zero, false
	}
	return entry.price, true
}

// Set stores a price and drops expired entries.
func (c *priceCache) Set(ticker model.Ticker, price decimal.Decimal, now time.Time) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[ticker] = cacheEntry{price: price, expiresAt: now.Add(c.ttl)}
}

// Clear removes all entries.
func (c *priceCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[model.Ticker]cacheEntry)
}
