package providers

import (
	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/config"
	"github.com/cropline/psdgate/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting psdgate",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"psd_base_url", cfg.PSD.BaseURL,
		"psd_key_configured", cfg.PSD.APIKey != "",
		"year_cache_size", cfg.Cache.YearCacheSize,
		"world_totals", cfg.PSD.WorldTotals,
		"aliases_path", cfg.Aliases.Path,
	)
	if cfg.PSD.APIKey == "" {
		log.Warn("No PSD API key configured (PSD_API_KEY or FAS_API_KEY), data endpoints will fail")
	}

	return log, nil
}
