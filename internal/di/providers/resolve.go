package providers

import (
	"context"
	"errors"
	"os"

	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/alias"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/config"
	"github.com/cropline/psdgate/internal/logger"
	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/resolve"
	"github.com/cropline/psdgate/internal/watcher"
)

// ProvideAliases provides the alias tables with the override file merged.
// A missing override file is not an error; it may be created later.
func ProvideAliases(i do.Injector) (*alias.Tables, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	tables := alias.Default()
	if cfg.Aliases.Path == "" {
		return tables, nil
	}

	if err := tables.MergeFile(cfg.Aliases.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Warn("Alias overrides file not found, using built-in aliases", "path", cfg.Aliases.Path)
		return tables, nil
	}

	commodities, countries, metricsCount := tables.Len()
	log.Info("Alias overrides loaded",
		"path", cfg.Aliases.Path,
		"commodities", commodities,
		"countries", countries,
		"metrics", metricsCount,
	)
	return tables, nil
}

// AliasWatcherHandle wraps the alias file watcher with Shutdownable.
// Watcher is nil when overrides or watching are disabled.
type AliasWatcherHandle struct {
	Watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *AliasWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideAliasWatcher provides the alias override hot reload.
func ProvideAliasWatcher(i do.Injector) (*AliasWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tables := do.MustInvoke[*alias.Tables](i)

	if cfg.Aliases.Path == "" || !cfg.Aliases.Watch {
		return &AliasWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Component("watcher"), cfg.Aliases.Path, watcher.Options{})
	if err != nil {
		log.Warn("Alias overrides will not be reloaded", "path", cfg.Aliases.Path, "error", err)
		return &AliasWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloader := alias.NewReloader(tables, w.Path(), log.Component("aliases"))

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Alias watcher stopped", "error", err)
		}
	}()
	go reloader.Run(ctx, w.Events())
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				log.Warn("Alias watcher error", "error", err)
			}
		}
	}()

	log.Info("Watching alias overrides", "path", w.Path())
	return &AliasWatcherHandle{Watcher: w, cancel: cancel}, nil
}

// ProvideCommodityResolver provides the commodity resolver.
func ProvideCommodityResolver(i do.Injector) (*resolve.CommodityResolver, error) {
	c := do.MustInvoke[*catalog.Catalog](i)
	tables := do.MustInvoke[*alias.Tables](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return resolve.NewCommodityResolver(c, tables, m, log.Component("resolve")), nil
}

// ProvideCountryResolver provides the country resolver.
func ProvideCountryResolver(i do.Injector) (*resolve.CountryResolver, error) {
	c := do.MustInvoke[*catalog.Catalog](i)
	tables := do.MustInvoke[*alias.Tables](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)

	return resolve.NewCountryResolver(c, tables, m, log.Component("resolve")), nil
}

// ProvideMetricResolver provides the metric resolver.
func ProvideMetricResolver(i do.Injector) (*resolve.MetricResolver, error) {
	tables := do.MustInvoke[*alias.Tables](i)
	return resolve.NewMetricResolver(tables), nil
}
