package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/api"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/config"
	"github.com/cropline/psdgate/internal/logger"
	"github.com/cropline/psdgate/internal/resolve"
	"github.com/cropline/psdgate/internal/service"
	"github.com/cropline/psdgate/internal/validation"
	"github.com/cropline/psdgate/internal/yearcache"
)

// ProvideValidator provides the request parameter validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvidePSDService provides the query service.
func ProvidePSDService(i do.Injector) (*service.PSDService, error) {
	client := do.MustInvoke[*PSDClientHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPSDService(service.Deps{
		Catalog:     do.MustInvoke[*catalog.Catalog](i),
		Years:       do.MustInvoke[*yearcache.Cache](i),
		WorldYears:  do.MustInvoke[*WorldYearCacheHandle](i).Cache,
		Commodities: do.MustInvoke[*resolve.CommodityResolver](i),
		Countries:   do.MustInvoke[*resolve.CountryResolver](i),
		Metrics:     do.MustInvoke[*resolve.MetricResolver](i),
		Index:       index.Index,
		Upstream:    client.Client,
		Validator:   do.MustInvoke[*validation.Validator](i),
		Logger:      log.Component("service"),
	}), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	reg := do.MustInvoke[*prometheus.Registry](i)
	psdService := do.MustInvoke[*service.PSDService](i)

	handler := api.NewServer(psdService, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Gatherer:    reg,
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
