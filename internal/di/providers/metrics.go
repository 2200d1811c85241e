package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"

	"github.com/cropline/psdgate/internal/metrics"
)

// ProvideRegistry provides the Prometheus registry with runtime collectors.
func ProvideRegistry(i do.Injector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, nil
}

// ProvideMetrics provides the gateway metrics.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	reg := do.MustInvoke[*prometheus.Registry](i)
	return metrics.New(reg), nil
}
