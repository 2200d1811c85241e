// Package di provides dependency injection configuration for psdgate.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/alias"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/config"
	"github.com/cropline/psdgate/internal/di/providers"
	"github.com/cropline/psdgate/internal/logger"
	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/resolve"
	"github.com/cropline/psdgate/internal/service"
	"github.com/cropline/psdgate/internal/yearcache"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideRegistry)
	do.Provide(injector, providers.ProvideMetrics)

	// Upstream and caches
	do.Provide(injector, providers.ProvidePSDClient)
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideYearCache)
	do.Provide(injector, providers.ProvideWorldYearCache)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Name resolution
	do.Provide(injector, providers.ProvideAliases)
	do.Provide(injector, providers.ProvideAliasWatcher)
	do.Provide(injector, providers.ProvideCommodityResolver)
	do.Provide(injector, providers.ProvideCountryResolver)
	do.Provide(injector, providers.ProvideMetricResolver)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvidePSDService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[*providers.PSDClientHandle](injector)
	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*yearcache.Cache](injector)
	_ = do.MustInvoke[*providers.WorldYearCacheHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*alias.Tables](injector)
	_ = do.MustInvoke[*providers.AliasWatcherHandle](injector)
	_ = do.MustInvoke[*resolve.CommodityResolver](injector)
	_ = do.MustInvoke[*resolve.CountryResolver](injector)
	_ = do.MustInvoke[*resolve.MetricResolver](injector)
	_ = do.MustInvoke[*service.PSDService](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
