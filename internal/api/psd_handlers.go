package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/service"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCommodities",
		Method:      http.MethodGet,
		Path:        "/api/v1/commodities",
		Summary:     "List commodities",
		Tags:        []string{"Catalog"},
	}, s.handleListCommodities)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCountries",
		Method:      http.MethodGet,
		Path:        "/api/v1/countries",
		Summary:     "List countries",
		Tags:        []string{"Catalog"},
	}, s.handleListCountries)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog names",
		Description: "Typo-tolerant search over commodity, country, attribute and unit names",
		Tags:        []string{"Catalog"},
	}, s.handleSearchCatalog)
}

func (s *Server) registerQueryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookup",
		Method:      http.MethodGet,
		Path:        "/api/v1/psd",
		Summary:     "Balance sheet",
		Description: "Balance sheet of one commodity for a country or the world in one market year",
		Tags:        []string{"PSD"},
	}, s.handleLookup)

	huma.Register(s.api, huma.Operation{
		OperationID: "top",
		Method:      http.MethodGet,
		Path:        "/api/v1/top",
		Summary:     "Top countries",
		Description: "Ranks countries by one metric for a commodity and market year",
		Tags:        []string{"PSD"},
	}, s.handleTop)

	huma.Register(s.api, huma.Operation{
		OperationID: "series",
		Method:      http.MethodGet,
		Path:        "/api/v1/series",
		Summary:     "Time series",
		Description: "One metric over a market year range, one point per year",
		Tags:        []string{"PSD"},
	}, s.handleSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "compare",
		Method:      http.MethodGet,
		Path:        "/api/v1/compare",
		Summary:     "Compare countries",
		Description: "Balance sheets (year) or series (from/to) for a list of countries",
		Tags:        []string{"PSD"},
	}, s.handleCompare)
}

// === DTOs ===

// CatalogOutput wraps a catalog list for Huma.
type CatalogOutput struct {
	Body *service.CatalogResult
}

// SearchCatalogInput contains parameters for searching the catalog.
type SearchCatalogInput struct {
	Query string `query:"q" doc:"Search text"`
	Kind  string `query:"kind" doc:"commodities, countries, attributes or units. Omit for commodities and countries."`
	Limit int    `query:"limit" doc:"Max hits (default 10, max 50)"`
}

// SearchCatalogOutput wraps search hits for Huma.
type SearchCatalogOutput struct {
	Body *service.SuggestResult
}

// LookupInput contains parameters for a balance sheet.
type LookupInput struct {
	Commodity string `query:"commodity" doc:"Commodity name or code" example:"soja"`
	Country   string `query:"country" doc:"Country name; world, mundo or global for world totals (default world)" example:"brasil"`
	Year      string `query:"year" doc:"Market year" example:"2024"`
	All       bool   `query:"all" doc:"Keep every attribute, not only balance sheet lines"`
}

// LookupOutput wraps a balance sheet for Huma.
type LookupOutput struct {
	Body *service.LookupResult
}

// TopInput contains parameters for a ranking.
type TopInput struct {
	Commodity string `query:"commodity" doc:"Commodity name or code" example:"soja"`
	Metric    string `query:"metric" doc:"Metric name (default Production)" example:"producao"`
	Year      string `query:"year" doc:"Market year" example:"2024"`
	N         int    `query:"n" doc:"Number of countries, clamped to 1..60 (default 10)"`
}

// TopOutput wraps a ranking for Huma.
type TopOutput struct {
	Body *service.TopResult
}

// SeriesInput contains parameters for a time series.
type SeriesInput struct {
	Commodity string `query:"commodity" doc:"Commodity name or code" example:"soja"`
	Country   string `query:"country" doc:"Country name (default world)" example:"brasil"`
	Metric    string `query:"metric" doc:"Metric name (default Production)"`
	From      string `query:"from" doc:"First market year" example:"2015"`
	To        string `query:"to" doc:"Last market year, at most 40 years after from" example:"2024"`
}

// SeriesOutput wraps a time series for Huma.
type SeriesOutput struct {
	Body *service.SeriesResult
}

// CompareInput contains parameters for a comparison.
type CompareInput struct {
	Commodity string `query:"commodity" doc:"Commodity name or code" example:"soja"`
	Countries string `query:"countries" doc:"Countries separated by comma, pipe or semicolon" example:"brasil,argentina"`
	Metric    string `query:"metric" doc:"Metric for series mode (default Production)"`
	Year      string `query:"year" doc:"Market year (single-year mode)"`
	From      string `query:"from" doc:"First market year (series mode)"`
	To        string `query:"to" doc:"Last market year (series mode)"`
}

// CompareOutput wraps a comparison for Huma.
type CompareOutput struct {
	Body *service.CompareResult
}

// === Handlers ===

func (s *Server) handleListCommodities(ctx context.Context, _ *struct{}) (*CatalogOutput, error) {
	result, err := s.psd.Commodities(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogOutput{Body: result}, nil
}

func (s *Server) handleListCountries(ctx context.Context, _ *struct{}) (*CatalogOutput, error) {
	result, err := s.psd.Countries(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogOutput{Body: result}, nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	result, err := s.psd.Suggest(ctx, service.SuggestParams{
		Query: input.Query,
		Kind:  catalog.Kind(input.Kind),
		Limit: input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &SearchCatalogOutput{Body: result}, nil
}

func (s *Server) handleLookup(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
	year, err := service.ParseYear("year", input.Year)
	if err != nil {
		return nil, err
	}

	result, err := s.psd.Lookup(ctx, service.LookupParams{
		Commodity: input.Commodity,
		Country:   input.Country,
		Year:      year,
		All:       input.All,
	})
	if err != nil {
		return nil, err
	}
	return &LookupOutput{Body: result}, nil
}

func (s *Server) handleTop(ctx context.Context, input *TopInput) (*TopOutput, error) {
	year, err := service.ParseYear("year", input.Year)
	if err != nil {
		return nil, err
	}

	result, err := s.psd.Top(ctx, service.TopParams{
		Commodity: input.Commodity,
		Metric:    input.Metric,
		Year:      year,
		N:         input.N,
	})
	if err != nil {
		return nil, err
	}
	return &TopOutput{Body: result}, nil
}

func (s *Server) handleSeries(ctx context.Context, input *SeriesInput) (*SeriesOutput, error) {
	from, err := service.ParseYear("from", input.From)
	if err != nil {
		return nil, err
	}
	to, err := service.ParseYear("to", input.To)
	if err != nil {
		return nil, err
	}

	result, err := s.psd.Series(ctx, service.SeriesParams{
		Commodity: input.Commodity,
		Country:   input.Country,
		Metric:    input.Metric,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Body: result}, nil
}

func (s *Server) handleCompare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	params := service.CompareParams{
		Commodity: input.Commodity,
		Countries: input.Countries,
		Metric:    input.Metric,
	}

	var err error
	if params.Year, err = service.ParseYear("year", input.Year); err != nil {
		return nil, err
	}
	if params.From, err = service.ParseYear("from", input.From); err != nil {
		return nil, err
	}
	if params.To, err = service.ParseYear("to", input.To); err != nil {
		return nil, err
	}

	result, err := s.psd.Compare(ctx, params)
	if err != nil {
		return nil, err
	}
	return &CompareOutput{Body: result}, nil
}
