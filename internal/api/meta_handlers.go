package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cropline/psdgate/internal/service"
)

func (s *Server) registerMetaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "usage",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Usage",
		Description: "Lists example requests",
		Tags:        []string{"Meta"},
	}, s.handleUsage)

	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports whether an API key is configured, the upstream base URL and cache sizes",
		Tags:        []string{"Meta"},
	}, s.handleHealthCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRoutes",
		Method:      http.MethodGet,
		Path:        "/_routes",
		Summary:     "List routes",
		Tags:        []string{"Meta"},
	}, s.handleListRoutes)

	huma.Register(s.api, huma.Operation{
		OperationID: "diagnose",
		Method:      http.MethodGet,
		Path:        "/diagnose",
		Summary:     "Diagnose upstream",
		Description: "Probes the commodity and country endpoints and returns the raw upstream envelopes",
		Tags:        []string{"Meta"},
	}, s.handleDiagnose)
}

// UsageResponse lists example requests.
type UsageResponse struct {
	OK  bool     `json:"ok"`
	Use []string `json:"use" doc:"Example requests"`
}

// UsageOutput wraps the usage response for Huma.
type UsageOutput struct {
	Body UsageResponse
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body *service.HealthResult
}

// RoutesOutput wraps the route list for Huma.
type RoutesOutput struct {
	Body []string
}

// DiagnoseOutput wraps the probe envelopes for Huma.
type DiagnoseOutput struct {
	Body *service.DiagnoseResult
}

var usageExamples = []string{
	"/health",
	"/_routes",
	"/diagnose",
	"/metrics",
	"/api/v1/commodities",
	"/api/v1/countries",
	"/api/v1/psd?commodity=soybeans&country=brazil&year=2024",
	"/api/v1/psd?commodity=milho&country=mundo&year=2024",
	"/api/v1/top?commodity=soja&metric=producao&year=2024&n=10",
	"/api/v1/series?commodity=soja&country=brasil&metric=exportacao&from=2015&to=2024",
	"/api/v1/compare?commodity=soja&countries=brasil,argentina,eua&year=2024",
	"/api/v1/catalog/search?q=soybean&kind=commodities",
}

func (s *Server) handleUsage(_ context.Context, _ *struct{}) (*UsageOutput, error) {
	return &UsageOutput{Body: UsageResponse{OK: true, Use: usageExamples}}, nil
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: s.psd.Health()}, nil
}

func (s *Server) handleListRoutes(_ context.Context, _ *struct{}) (*RoutesOutput, error) {
	return &RoutesOutput{Body: s.Routes()}, nil
}

func (s *Server) handleDiagnose(ctx context.Context, _ *struct{}) (*DiagnoseOutput, error) {
	return &DiagnoseOutput{Body: s.psd.Diagnose(ctx)}, nil
}
