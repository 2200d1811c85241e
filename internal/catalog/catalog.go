package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/normalize"
)

// Source fetches the reference lists from upstream.
type Source interface {
	ListCommodities(ctx context.Context) ([]Entry, error)
	ListCountries(ctx context.Context) ([]Entry, error)
	ListAttributes(ctx context.Context) ([]Entry, error)
	ListUnits(ctx context.Context) ([]Entry, error)
}

// Catalog lazily loads and keeps each reference list for the life of the
// process. A failed load is returned to the caller and retried on next use.
type Catalog struct {
	source  Source
	metrics *metrics.Metrics
	logger  *slog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	lists map[Kind][]Entry
}

// New creates a catalog over source.
func New(source Source, m *metrics.Metrics, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		source:  source,
		metrics: m,
		logger:  logger,
		lists:   make(map[Kind][]Entry),
	}
}

// Entries returns the list for kind, loading it on first use.
// Callers must not modify the returned slice.
func (c *Catalog) Entries(ctx context.Context, kind Kind) ([]Entry, error) {
	c.mu.RLock()
	entries, ok := c.lists[kind]
	c.mu.RUnlock()
	if ok {
		c.metrics.CacheHit(metrics.CacheCatalog)
		return entries, nil
	}

	c.metrics.CacheMiss(metrics.CacheCatalog)

	v, err, shared := c.group.Do(string(kind), func() (any, error) {
		c.logger.Debug("loading catalog", "kind", kind)

		loaded, err := c.load(ctx, kind)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.lists[kind] = loaded
		c.mu.Unlock()

		c.logger.Info("catalog loaded", "kind", kind, "entries", len(loaded))
		return loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", kind, err)
	}
	if shared {
		c.logger.Debug("catalog load shared", "kind", kind)
	}

	return v.([]Entry), nil
}

func (c *Catalog) load(ctx context.Context, kind Kind) ([]Entry, error) {
	switch kind {
	case KindCommodities:
		return c.source.ListCommodities(ctx)
	case KindCountries:
		return c.source.ListCountries(ctx)
	case KindAttributes:
		return c.source.ListAttributes(ctx)
	case KindUnits:
		return c.source.ListUnits(ctx)
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", kind)
	}
}

// Commodities returns the commodity list.
func (c *Catalog) Commodities(ctx context.Context) ([]Entry, error) {
	return c.Entries(ctx, KindCommodities)
}

// Countries returns the country list.
func (c *Catalog) Countries(ctx context.Context) ([]Entry, error) {
	return c.Entries(ctx, KindCountries)
}

// Loaded reports whether kind has been loaded.
func (c *Catalog) Loaded(kind Kind) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lists[kind]
	return ok
}

// Sizes returns the entry count of every loaded list.
func (c *Catalog) Sizes() map[Kind]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sizes := make(map[Kind]int, len(c.lists))
	for kind, entries := range c.lists {
		sizes[kind] = len(entries)
	}
	return sizes
}

// World looks up the world pseudo-country in the country list.
func (c *Catalog) World(ctx context.Context) (WorldRef, error) {
	countries, err := c.Countries(ctx)
	if err != nil {
		return WorldRef{}, err
	}

	want := normalize.Normalize(WorldName)
	for _, e := range countries {
		for _, name := range e.Names() {
			if normalize.Normalize(name) == want {
				return WorldRef{Code: e.Code, Name: e.DisplayName(), Official: true}, nil
			}
		}
	}

	return WorldRef{Name: WorldName}, nil
}
