// Package yearcache keeps the rows of recent (commodity, market year)
// queries in a bounded first-in-first-out cache.
package yearcache

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/metrics"
)

// DefaultCapacity is the number of (commodity, year) entries kept.
const DefaultCapacity = 50

// Key identifies one cached query.
type Key struct {
	Code string
	Year int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Code, k.Year)
}

// Fetcher loads every country's rows for one commodity and market year.
type Fetcher interface {
	YearRows(ctx context.Context, code string, year int) ([]catalog.Row, error)
}

// Cache is a bounded FIFO cache of year rows.
//
// Entries are only ever read with Peek and written with ContainsOrAdd, so
// the underlying LRU never reorders them and eviction follows insertion
// order.
type Cache struct {
	name     string
	fetcher  Fetcher
	entries  *lru.Cache[Key, []catalog.Row]
	capacity int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates the country year cache holding at most capacity entries.
// A non-positive capacity selects DefaultCapacity.
func New(fetcher Fetcher, capacity int, m *metrics.Metrics, logger *slog.Logger) (*Cache, error) {
	return NewNamed(metrics.CacheYear, fetcher, capacity, m, logger)
}

// NewNamed creates a cache reported to metrics and logs under name.
func NewNamed(name string, fetcher Fetcher, capacity int, m *metrics.Metrics, logger *slog.Logger) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		name:     name,
		fetcher:  fetcher,
		capacity: capacity,
		metrics:  m,
		logger:   logger,
	}

	entries, err := lru.NewWithEvict(capacity, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	c.entries = entries

	return c, nil
}

func (c *Cache) onEvict(key Key, _ []catalog.Row) {
	c.metrics.CacheEvicted(c.name)
	c.logger.Debug("year cache eviction", "cache", c.name, "key", key.String())
}

// Get returns the rows for code and year, fetching them on a miss.
// Fetch errors are returned and not cached.
func (c *Cache) Get(ctx context.Context, code string, year int) ([]catalog.Row, error) {
	key := Key{Code: code, Year: year}

	if rows, ok := c.entries.Peek(key); ok {
		c.metrics.CacheHit(c.name)
		c.logger.Debug("year cache hit", "cache", c.name, "key", key.String())
		return rows, nil
	}

	c.metrics.CacheMiss(c.name)
	c.logger.Debug("year cache miss", "cache", c.name, "key", key.String())

	rows, err := c.fetcher.YearRows(ctx, code, year)
	if err != nil {
		return nil, err
	}

	c.entries.ContainsOrAdd(key, rows)
	c.metrics.SetCacheEntries(c.name, c.entries.Len())

	return rows, nil
}

// Contains reports whether key is cached.
func (c *Cache) Contains(key Key) bool {
	return c.entries.Contains(key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Name returns the cache's metrics label.
func (c *Cache) Name() string {
	return c.name
}

// Capacity returns the configured bound.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Keys returns the cached keys, oldest first.
func (c *Cache) Keys() []Key {
	return c.entries.Keys()
}
