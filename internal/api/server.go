// Package api serves the gateway's HTTP API with huma on a chi router.
package api

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cropline/psdgate/internal/service"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures the HTTP layer.
type Options struct {
	CORSOrigins []string
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	psd    *service.PSDService
	router *chi.Mux
	api    huma.API
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(psd *service.PSDService, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	humaConfig := huma.DefaultConfig("psdgate API", Version)
	humaConfig.Info.Description = "Translation and aggregation gateway for the USDA FAS PSD API"

	s := &Server{
		psd:    psd,
		router: router,
		api:    humachi.New(router, humaConfig),
		logger: logger,
	}

	RegisterErrorHandler()

	s.registerMetaRoutes()
	s.registerCatalogRoutes()
	s.registerQueryRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Routes lists every registered "METHOD /path", sorted.
func (s *Server) Routes() []string {
	routes := make([]string, 0)
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodOptions || method == http.MethodHead {
			return nil
		}
		route = strings.TrimSuffix(route, "/*")
		if route == "" {
			route = "/"
		}
		routes = append(routes, method+" "+route)
		return nil
	})
	sort.Strings(routes)
	return routes
}
