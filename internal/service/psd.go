// Package service orchestrates name resolution, year data and aggregation
// into the gateway's query operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/catalog"
	domainerrors "github.com/cropline/psdgate/internal/errors"
	"github.com/cropline/psdgate/internal/psd"
	"github.com/cropline/psdgate/internal/resolve"
	"github.com/cropline/psdgate/internal/search"
	"github.com/cropline/psdgate/internal/validation"
	"github.com/cropline/psdgate/internal/yearcache"
)

// maxSuggestions bounds the suggestions attached to an unresolved name.
const maxSuggestions = 5

// Upstream is the raw PSD transport used for diagnostics.
type Upstream interface {
	Fetch(ctx context.Context, path string, query url.Values) (*psd.Envelope, error)
	HasAPIKey() bool
	BaseURL() string
	Paths() psd.Paths
}

// Deps holds the collaborators of PSDService.
type Deps struct {
	Catalog     *catalog.Catalog
	Years       *yearcache.Cache
	WorldYears  *yearcache.Cache // official world totals; nil computes them
	Commodities *resolve.CommodityResolver
	Countries   *resolve.CountryResolver
	Metrics     *resolve.MetricResolver
	Index       *search.Index
	Upstream    Upstream
	Validator   *validation.Validator
	Logger      *slog.Logger
}

// PSDService answers balance sheet, ranking, series and comparison
// queries over free-text commodity and country names.
type PSDService struct {
	catalog     *catalog.Catalog
	years       *yearcache.Cache
	worldYears  *yearcache.Cache
	commodities *resolve.CommodityResolver
	countries   *resolve.CountryResolver
	metrics     *resolve.MetricResolver
	index       *search.Index
	upstream    Upstream
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewPSDService creates the service.
func NewPSDService(d Deps) *PSDService {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	return &PSDService{
		catalog:     d.Catalog,
		years:       d.Years,
		worldYears:  d.WorldYears,
		commodities: d.Commodities,
		countries:   d.Countries,
		metrics:     d.Metrics,
		index:       d.Index,
		upstream:    d.Upstream,
		validator:   d.Validator,
		logger:      d.Logger,
	}
}

// resolveCommodity resolves input or returns an UNRESOLVED error carrying
// suggestions.
func (s *PSDService) resolveCommodity(ctx context.Context, input string) (resolve.Result, error) {
	res, ok, err := s.commodities.Resolve(ctx, input)
	if err != nil {
		return resolve.Result{}, upstreamError(err, "failed to load commodity catalog")
	}
	if !ok {
		return resolve.Result{}, s.unresolved(ctx, catalog.KindCommodities, "commodity", input)
	}
	return res, nil
}

// countryScope is a resolved country or the world aggregate.
type countryScope struct {
	result resolve.Result
	world  bool
	ref    catalog.WorldRef
}

func (c countryScope) name() string {
	if c.world {
		return catalog.WorldName
	}
	return c.result.Name
}

func (c countryScope) code() string {
	if c.world {
		return c.ref.Code
	}
	return c.result.Code
}

func (c countryScope) seriesScope() aggregate.Scope {
	return aggregate.Scope{CountryCode: c.result.Code, World: c.world, WorldCode: c.ref.Code}
}

// resolveCountry resolves input to a country or the world. unresolved
// reports a name that matched nothing, separately from fetch errors.
func (s *PSDService) resolveCountry(ctx context.Context, input string) (scope countryScope, unresolved bool, err error) {
	if s.countries.IsWorld(input) {
		return countryScope{world: true, ref: s.world(ctx)}, false, nil
	}
	res, ok, err := s.countries.Resolve(ctx, input)
	if err != nil {
		return countryScope{}, false, upstreamError(err, "failed to load country catalog")
	}
	if !ok {
		return countryScope{}, true, nil
	}
	return countryScope{result: res}, false, nil
}

// world looks up the world pseudo-country. A catalog failure degrades to
// name-based detection and a computed sum.
func (s *PSDService) world(ctx context.Context) catalog.WorldRef {
	ref, err := s.catalog.World(ctx)
	if err != nil {
		s.logger.Warn("world lookup failed, using computed totals", "error", err)
		return catalog.WorldRef{Name: catalog.WorldName}
	}
	return ref
}

// yearRows returns one commodity year with labels filled in.
func (s *PSDService) yearRows(ctx context.Context, code string, year int) ([]catalog.Row, error) {
	rows, err := s.years.Get(ctx, code, year)
	if err != nil {
		return nil, err
	}
	return s.catalog.Enrich(ctx, rows), nil
}

// withOfficialWorld appends the official world totals of one commodity
// year when rows carry no world row. A failed world fetch leaves rows as
// they are, so callers fall back to a computed sum.
func (s *PSDService) withOfficialWorld(ctx context.Context, code string, year int, rows []catalog.Row, world catalog.WorldRef) []catalog.Row {
	if s.worldYears == nil {
		return rows
	}
	for _, r := range rows {
		if aggregate.IsWorldRow(r, world.Code) {
			return rows
		}
	}

	official, err := s.worldYears.Get(ctx, code, year)
	if err != nil {
		s.logger.Warn("official world totals unavailable, using computed totals",
			"commodity", code,
			"year", year,
			"error", err,
		)
		return rows
	}

	out := make([]catalog.Row, 0, len(rows)+len(official))
	out = append(out, rows...)
	for _, r := range s.catalog.Enrich(ctx, official) {
		r.CountryCode = world.Code
		r.CountryName = catalog.WorldName
		out = append(out, r)
	}
	return out
}

// unresolved builds an UNRESOLVED error echoing the input, with catalog
// suggestions when the search index is available.
func (s *PSDService) unresolved(ctx context.Context, kind catalog.Kind, what, input string) error {
	details := map[string]any{"input": input}
	if hits := s.suggestions(ctx, kind, input, maxSuggestions); len(hits) > 0 {
		details["suggestions"] = hits
	}
	return domainerrors.Unresolvedf("%s not found: %s", what, input).WithDetails(details)
}

func (s *PSDService) suggestions(ctx context.Context, kind catalog.Kind, q string, limit int) []search.Hit {
	if s.index == nil {
		return nil
	}
	if err := s.ensureIndexed(ctx, kind); err != nil {
		s.logger.Debug("suggestions unavailable", "kind", kind, "error", err)
		return nil
	}
	hits, err := s.index.Search(ctx, search.Params{Query: q, Kind: kind, Limit: limit})
	if err != nil {
		s.logger.Debug("suggestion search failed", "kind", kind, "error", err)
		return nil
	}
	return hits
}

// ensureIndexed loads a catalog list into the search index on first use.
func (s *PSDService) ensureIndexed(ctx context.Context, kind catalog.Kind) error {
	if s.index.Indexed(kind) {
		return nil
	}
	entries, err := s.catalog.Entries(ctx, kind)
	if err != nil {
		return err
	}
	return s.index.IndexEntries(kind, entries)
}

// upstreamError converts a fetch failure to a domain error. A missing API
// key is a server configuration problem, not an upstream one.
func upstreamError(err error, msg string) error {
	if errors.Is(err, psd.ErrNoAPIKey) {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "upstream api key not configured")
	}
	var pe *psd.Error
	if errors.As(err, &pe) {
		return domainerrors.Upstream(err, msg, map[string]any{
			"status":   pe.Status,
			"path":     pe.Path,
			"upstream": pe.Details,
		})
	}
	return domainerrors.Upstream(err, msg, map[string]any{"error": err.Error()})
}

// errorMarker is the short text put on a failed series point.
func errorMarker(err error) string {
	var pe *psd.Error
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
