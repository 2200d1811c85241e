package service

import (
	"context"
	"strings"

	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/catalog"
	domainerrors "github.com/cropline/psdgate/internal/errors"
	"github.com/cropline/psdgate/internal/normalize"
)

// Comparison modes.
const (
	ModeYear   = "year"
	ModeSeries = "series"
)

// checkRange rejects inverted ranges and ranges over MaxSeriesYears.
func checkRange(from, to int) error {
	if to < from {
		return domainerrors.ValidationWithDetails("invalid parameters: to must not be before from",
			map[string]string{"to": "must not be before from"})
	}
	if span := to - from + 1; span > aggregate.MaxSeriesYears {
		return domainerrors.ValidationWithDetails("invalid parameters: range covers too many years",
			map[string]any{"from": from, "to": to, "years": span, "max_years": aggregate.MaxSeriesYears})
	}
	return nil
}

// yearData is one year of rows, or the error fetching it.
type yearData struct {
	year int
	rows []catalog.Row
	err  error
}

// fetchYears fetches every year of a range. Failures stay with their year.
// A non-nil world adds the official world totals where rows lack them.
func (s *PSDService) fetchYears(ctx context.Context, code string, years []int, world *catalog.WorldRef) []yearData {
	out := make([]yearData, len(years))
	for i, y := range years {
		rows, err := s.yearRows(ctx, code, y)
		switch {
		case err != nil:
			s.logger.Warn("series year failed", "commodity", code, "year", y, "error", err)
		case world != nil:
			rows = s.withOfficialWorld(ctx, code, y, rows, *world)
		}
		out[i] = yearData{year: y, rows: rows, err: err}
	}
	return out
}

// points selects one point per year for scope. A failed year yields a
// nil value with an error marker.
func points(data []yearData, metric string, scope aggregate.Scope) (pts []aggregate.Point, failed int) {
	pts = make([]aggregate.Point, len(data))
	for i, d := range data {
		if d.err != nil {
			pts[i] = aggregate.Point{Year: d.year, Error: errorMarker(d.err)}
			failed++
			continue
		}
		pts[i] = aggregate.SelectPoint(d.rows, d.year, metric, scope)
	}
	return pts, failed
}

// Series returns one metric for a country or the world over a year range.
// The result always holds one point per requested year.
func (s *PSDService) Series(ctx context.Context, params SeriesParams) (*SeriesResult, error) {
	if strings.TrimSpace(params.Country) == "" {
		params.Country = DefaultCountry
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if err := checkRange(params.From, params.To); err != nil {
		return nil, err
	}
	metric := s.metric(params.Metric)

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

	var world *catalog.WorldRef
	if scope.world {
		world = &scope.ref
	}
	data := s.fetchYears(ctx, commodity.Code, aggregate.Years(params.From, params.To), world)
	pts, failed := points(data, metric, scope.seriesScope())

	return &SeriesResult{
		Request: params,
		Resolved: Resolved{
			CommodityCode: commodity.Code,
			Commodity:     commodity.Name,
			CountryCode:   scope.code(),
			Country:       scope.name(),
			Metric:        metric,
		},
		Points: pts,
		Failed: failed,
	}, nil
}

// Compare runs a balance sheet or a series for each country of a
// delimited list. Failures are reported per country.
func (s *PSDService) Compare(ctx context.Context, params CompareParams) (*CompareResult, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if params.SeriesMode() {
		if err := checkRange(params.From, params.To); err != nil {
			return nil, err
		}
	}

	inputs := normalize.SplitList(params.Countries)
	if len(inputs) == 0 {
		return nil, domainerrors.ValidationWithDetails("invalid parameters: countries is required",
			map[string]string{"countries": "is required"})
	}
	if len(inputs) > MaxCompareCountries {
		return nil, domainerrors.ValidationWithDetails("invalid parameters: too many countries",
			map[string]any{"countries": len(inputs), "max": MaxCompareCountries})
	}

	commodity, err := s.resolveCommodity(ctx, params.Commodity)
	if err != nil {
		return nil, err
	}

	result := &CompareResult{
		Request: params,
		Resolved: Resolved{
			CommodityCode: commodity.Code,
			Commodity:     commodity.Name,
		},
		Results: make([]CompareSlot, 0, len(inputs)),
	}

	if params.SeriesMode() {
		result.Mode = ModeSeries
		result.Resolved.Metric = s.metric(params.Metric)
		result.Years = aggregate.Years(params.From, params.To)
	} else {
		result.Mode = ModeYear
		result.Years = []int{params.Year}
	}
	var world *catalog.WorldRef
	for _, input := range inputs {
		if s.countries.IsWorld(input) {
			ref := s.world(ctx)
			world = &ref
			break
		}
	}
	data := s.fetchYears(ctx, commodity.Code, result.Years, world)

	for _, input := range inputs {
		slot := CompareSlot{Input: input}

		scope, unresolved, err := s.resolveCountry(ctx, input)
		switch {
		case err != nil:
			slot.Status = StatusUpstreamError
			slot.Error = err.Error()
		case unresolved:
			slot.Status = StatusUnresolved
			slot.Error = "country not found: " + input
		default:
			slot.CountryCode = scope.code()
			slot.Country = scope.name()
			if params.SeriesMode() {
				s.fillSeriesSlot(&slot, data, result.Resolved.Metric, scope)
			} else {
				s.fillYearSlot(&slot, data[0], scope)
			}
		}

		result.Results = append(result.Results, slot)
	}

	s.logger.Debug("compare",
		"commodity", commodity.Code,
		"mode", result.Mode,
		"countries", len(inputs),
	)

	return result, nil
}

func (s *PSDService) fillYearSlot(slot *CompareSlot, d yearData, scope countryScope) {
	if d.err != nil {
		slot.Status = StatusUpstreamError
		slot.Error = errorMarker(d.err)
		return
	}
	summary, computed := s.summarize(d.rows, scope, false)
	if summary.Empty() {
		slot.Status = StatusNoData
		return
	}
	slot.Status = StatusOK
	slot.Computed = computed
	slot.Summary = &summary
}

func (s *PSDService) fillSeriesSlot(slot *CompareSlot, data []yearData, metric string, scope countryScope) {
	pts, failed := points(data, metric, scope.seriesScope())
	slot.Points = pts

	values := 0
	for _, p := range pts {
		if p.Value != nil {
			values++
		}
	}

	switch {
	case values > 0:
		slot.Status = StatusOK
	case failed == len(pts):
		slot.Status = StatusUpstreamError
		slot.Error = pts[0].Error
	default:
		slot.Status = StatusNoData
	}
}
