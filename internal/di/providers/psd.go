package providers

import (
	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/config"
	"github.com/cropline/psdgate/internal/logger"
	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/psd"
	"github.com/cropline/psdgate/internal/search"
	"github.com/cropline/psdgate/internal/yearcache"
)

// PSDClientHandle wraps the PSD client with Shutdownable.
type PSDClientHandle struct {
	*psd.Client
}

// Shutdown implements do.Shutdownable.
func (h *PSDClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvidePSDClient provides the upstream PSD API client.
func ProvidePSDClient(i do.Injector) (*PSDClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	client, err := psd.New(psd.Config{
		BaseURL: cfg.PSD.BaseURL,
		APIKey:  cfg.PSD.APIKey,
		Timeout: cfg.PSD.Timeout,
		RPS:     cfg.PSD.RateLimitRPS,
		Burst:   cfg.PSD.RateLimitBurst,
	}, m, log.Component("psd"))
	if err != nil {
		return nil, err
	}

	return &PSDClientHandle{Client: client}, nil
}

// ProvideCatalog provides the lazily loaded reference lists.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	client := do.MustInvoke[*PSDClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return catalog.New(client.Client, m, log.Component("catalog")), nil
}

// ProvideYearCache provides the bounded (commodity, year) cache.
func ProvideYearCache(i do.Injector) (*yearcache.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*PSDClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return yearcache.New(client.Client, cfg.Cache.YearCacheSize, m, log.Component("yearcache"))
}

// WorldYearCacheHandle holds the official world totals cache. Cache is
// nil when world totals are computed.
type WorldYearCacheHandle struct {
	Cache *yearcache.Cache
}

// ProvideWorldYearCache provides the (commodity, year) cache of official
// world totals.
func ProvideWorldYearCache(i do.Injector) (*WorldYearCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if !cfg.PSD.WorldTotals {
		return &WorldYearCacheHandle{}, nil
	}

	client := do.MustInvoke[*PSDClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	cache, err := yearcache.NewNamed(metrics.CacheWorld, psd.WorldRows{Client: client.Client},
		cfg.Cache.YearCacheSize, m, log.Component("yearcache"))
	if err != nil {
		return nil, err
	}
	return &WorldYearCacheHandle{Cache: cache}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory catalog search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(log.Component("search"))
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}
