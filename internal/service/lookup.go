package service

import (
	"context"
	"strings"

	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/catalog"
	domainerrors "github.com/cropline/psdgate/internal/errors"
)

// Lookup returns the balance sheet of one commodity for a country or the
// world. Unless All is set only balance sheet lines are kept.
func (s *PSDService) Lookup(ctx context.Context, params LookupParams) (*LookupResult, error) {
	if strings.TrimSpace(params.Country) == "" {
		params.Country = DefaultCountry
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	commodity, err := s.resolveCommodity(ctx, params.Commodity)
	if err != nil {
		return nil, err
	}

	scope, unresolved, err := s.resolveCountry(ctx, params.Country)
	if err != nil {
		return nil, err
	}
	if unresolved {
		return nil, s.unresolved(ctx, catalog.KindCountries, "country", params.Country)
	}

	rows, err := s.yearRows(ctx, commodity.Code, params.Year)
	if err != nil {
		return nil, upstreamError(err, "failed to fetch year data")
	}
	if scope.world {
		rows = s.withOfficialWorld(ctx, commodity.Code, params.Year, rows, scope.ref)
	}

	summary, computed := s.summarize(rows, scope, params.All)
	if summary.Empty() {
		return nil, domainerrors.NoDataf("no data for %s in %s for %d", commodity.Name, scope.name(), params.Year).
			WithDetails(map[string]any{
				"commodity_code": commodity.Code,
				"country_code":   scope.code(),
				"year":           params.Year,
			})
	}

	s.logger.Debug("lookup",
		"commodity", commodity.Code,
		"country", scope.code(),
		"year", params.Year,
		"computed", computed,
		"values", len(summary.Values),
	)

	return &LookupResult{
		Request: params,
		Resolved: Resolved{
			CommodityCode: commodity.Code,
			Commodity:     commodity.Name,
			CountryCode:   scope.code(),
			Country:       scope.name(),
		},
		Computed: computed,
		Summary:  summary,
	}, nil
}

// summarize reduces one year of rows to the scope's summary. For the world
// it prefers the official row and falls back to a cross-country sum.
func (s *PSDService) summarize(rows []catalog.Row, scope countryScope, all bool) (aggregate.Summary, bool) {
	if !all {
		rows = aggregate.FilterBalanceSheet(rows)
	}

	if !scope.world {
		return aggregate.Summarize(aggregate.FilterCountry(rows, scope.result.Code)), false
	}

	official := make([]catalog.Row, 0)
	for _, r := range rows {
		if aggregate.IsWorldRow(r, scope.ref.Code) {
			official = append(official, r)
		}
	}
	if summary := aggregate.Summarize(official); !summary.Empty() {
		return summary, false
	}

	return aggregate.SumAcrossCountries(rows, scope.ref.Code), true
}

// Top ranks the countries of one commodity year by a metric.
func (s *PSDService) Top(ctx context.Context, params TopParams) (*TopResult, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if params.N == 0 {
		params.N = aggregate.DefaultTopN
	}
	n := aggregate.ClampTopN(params.N)
	metric := s.metric(params.Metric)

	commodity, err := s.resolveCommodity(ctx, params.Commodity)
	if err != nil {
		return nil, err
	}

	rows, err := s.yearRows(ctx, commodity.Code, params.Year)
	if err != nil {
		return nil, upstreamError(err, "failed to fetch year data")
	}

	items := aggregate.Top(rows, metric, n, s.world(ctx).Code)
	if len(items) == 0 {
		return nil, domainerrors.NoDataf("no %s data for %s in %d", metric, commodity.Name, params.Year).
			WithDetails(map[string]any{
				"commodity_code": commodity.Code,
				"metric":         metric,
				"year":           params.Year,
			})
	}

	return &TopResult{
		Request: params,
		Resolved: Resolved{
			CommodityCode: commodity.Code,
			Commodity:     commodity.Name,
			Metric:        metric,
		},
		N:     n,
		Items: items,
	}, nil
}

// metric resolves a metric name, defaulting to production.
func (s *PSDService) metric(input string) string {
	if strings.TrimSpace(input) == "" {
		return aggregate.Production
	}
	return s.metrics.Resolve(input)
}
