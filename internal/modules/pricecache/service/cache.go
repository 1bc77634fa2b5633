package service

import (
	"sync"
	"time"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

type entry struct {
	quote    models.Quote
	cachedAt time.Time
}

// Cache короткоживущий кэш последней цены по паре.
// Get сам проверяет возраст, Sweep только чистит память.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

type Option func(*Cache)

// WithClock подменяет часы (для тестов).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func NewCache(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(pair string) (models.Quote, bool) {
	pair = helper.NormPair(pair)

	c.mu.RLock()
	e, ok := c.items[pair]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.cachedAt) >= c.ttl {
		return models.Quote{}, false
	}
	return e.quote, true
}

func (c *Cache) Set(pair string, price, volume float64) {
	pair = helper.NormPair(pair)
	now := c.now()

	c.mu.Lock()
	c.items[pair] = entry{quote: models.Quote{Price: price, Volume: volume}, cachedAt: now}
	c.mu.Unlock()
}

// Sweep удаляет протухшие записи и возвращает их число.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.items {
		if now.Sub(e.cachedAt) >= c.ttl {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
