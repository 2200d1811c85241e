package service

import (
	"context"
	"net/http"

	"github.com/cropline/psdgate/internal/catalog"
	domainerrors "github.com/cropline/psdgate/internal/errors"
	"github.com/cropline/psdgate/internal/psd"
	"github.com/cropline/psdgate/internal/search"
)

// Commodities returns the commodity list.
func (s *PSDService) Commodities(ctx context.Context) (*CatalogResult, error) {
	return s.list(ctx, catalog.KindCommodities)
}

// Countries returns the country list.
func (s *PSDService) Countries(ctx context.Context) (*CatalogResult, error) {
	return s.list(ctx, catalog.KindCountries)
}

func (s *PSDService) list(ctx context.Context, kind catalog.Kind) (*CatalogResult, error) {
	entries, err := s.catalog.Entries(ctx, kind)
	if err != nil {
		return nil, upstreamError(err, "failed to load "+string(kind))
	}
	return &CatalogResult{Kind: kind, Count: len(entries), Items: entries}, nil
}

// Suggest searches catalog names. An empty kind searches commodities and
// countries.
func (s *PSDService) Suggest(ctx context.Context, params SuggestParams) (*SuggestResult, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, domainerrors.Internal("catalog search is not available")
	}

	kinds := []catalog.Kind{params.Kind}
	if params.Kind == "" {
		kinds = []catalog.Kind{catalog.KindCommodities, catalog.KindCountries}
	}
	for _, kind := range kinds {
		if err := s.ensureIndexed(ctx, kind); err != nil {
			return nil, upstreamError(err, "failed to load "+string(kind))
		}
	}

	hits, err := s.index.Search(ctx, search.Params{Query: params.Query, Kind: params.Kind, Limit: params.Limit})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "catalog search failed")
	}

	return &SuggestResult{Query: params.Query, Kind: params.Kind, Hits: hits}, nil
}

// Diagnose probes the commodity and country endpoints and returns what
// upstream answered, failures included.
func (s *PSDService) Diagnose(ctx context.Context) *DiagnoseResult {
	paths := s.upstream.Paths()
	return &DiagnoseResult{
		CommoditiesProbe: s.probe(ctx, paths.Commodities),
		CountriesProbe:   s.probe(ctx, paths.Countries),
	}
}

func (s *PSDService) probe(ctx context.Context, path string) *psd.Envelope {
	env, err := s.upstream.Fetch(ctx, path, nil)
	if err != nil {
		s.logger.Warn("diagnose probe failed", "path", path, "error", err)
	}
	if env == nil {
		env = &psd.Envelope{StatusCode: http.StatusBadGateway, Data: map[string]any{"error": errorMarker(err)}}
	}
	return env
}

// Health reports configuration and cache state. It makes no upstream call.
func (s *PSDService) Health() *HealthResult {
	h := &HealthResult{
		OK:            true,
		KeyConfigured: s.upstream.HasAPIKey(),
		Base:          s.upstream.BaseURL(),
		Catalogs:      s.catalog.Sizes(),
		YearCache: YearCacheStatus{
			Entries:  s.years.Len(),
			Capacity: s.years.Capacity(),
		},
		WorldTotals: WorldTotalsComputed,
	}
	if s.worldYears != nil {
		h.WorldTotals = WorldTotalsOfficial
		h.WorldCache = &YearCacheStatus{
			Entries:  s.worldYears.Len(),
			Capacity: s.worldYears.Capacity(),
		}
	}
	return h
}
