package service

import (
	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/psd"
	"github.com/cropline/psdgate/internal/search"
)

// DefaultCountry is used when a lookup names no country.
const DefaultCountry = "world"

// MaxCompareCountries bounds the country list of one comparison.
const MaxCompareCountries = 20

// Per-country comparison statuses.
const (
	StatusOK            = "ok"
	StatusUnresolved    = "unresolved"
	StatusNoData        = "no_data"
	StatusUpstreamError = "upstream_error"
)

// LookupParams selects one balance sheet.
type LookupParams struct {
	Commodity string `json:"commodity" validate:"notblank"`
	Country   string `json:"country"`
	Year      int    `json:"year" validate:"required,marketyear"`
	All       bool   `json:"all"`
}

// TopParams selects a ranking. N is clamped, not rejected.
type TopParams struct {
	Commodity string `json:"commodity" validate:"notblank"`
	Metric    string `json:"metric"`
	Year      int    `json:"year" validate:"required,marketyear"`
	N         int    `json:"n"`
}

// SeriesParams selects one metric over a year range.
type SeriesParams struct {
	Commodity string `json:"commodity" validate:"notblank"`
	Country   string `json:"country"`
	Metric    string `json:"metric"`
	From      int    `json:"from" validate:"required,marketyear"`
	To        int    `json:"to" validate:"required,marketyear,gtefield=From"`
}

// CompareParams selects a comparison. Year selects single-year mode;
// From and To select series mode.
type CompareParams struct {
	Commodity string `json:"commodity" validate:"notblank"`
	Countries string `json:"countries" validate:"notblank"`
	Metric    string `json:"metric"`
	Year      int    `json:"year" validate:"required_without=From,excluded_with=From,marketyear"`
	From      int    `json:"from" validate:"required_without=Year,marketyear"`
	To        int    `json:"to" validate:"required_with=From,marketyear"`
}

// SeriesMode reports whether the comparison runs over a year range.
func (p CompareParams) SeriesMode() bool {
	return p.From != 0
}

// SuggestParams selects a catalog search.
type SuggestParams struct {
	Query string       `json:"q" validate:"notblank"`
	Kind  catalog.Kind `json:"kind" validate:"omitempty,oneof=commodities countries attributes units"`
	Limit int          `json:"limit" validate:"omitempty,min=1,max=50"`
}

// Resolved echoes the codes and names a request resolved to.
type Resolved struct {
	CommodityCode string `json:"commodity_code"`
	Commodity     string `json:"commodity"`
	CountryCode   string `json:"country_code,omitempty"`
	Country       string `json:"country,omitempty"`
	Metric        string `json:"metric,omitempty"`
}

// LookupResult is one balance sheet. Computed is true when world totals
// were summed from country rows.
type LookupResult struct {
	Request  LookupParams      `json:"request"`
	Resolved Resolved          `json:"resolved"`
	Computed bool              `json:"computed"`
	Summary  aggregate.Summary `json:"summary"`
}

// TopResult is a ranking.
type TopResult struct {
	Request  TopParams          `json:"request"`
	Resolved Resolved           `json:"resolved"`
	N        int                `json:"n"`
	Items    []aggregate.Ranked `json:"items"`
}

// SeriesResult is one metric over a year range. Points has one entry per
// requested year.
type SeriesResult struct {
	Request  SeriesParams      `json:"request"`
	Resolved Resolved          `json:"resolved"`
	Points   []aggregate.Point `json:"points"`
	Failed   int               `json:"failed"`
}

// CompareSlot is the outcome for one requested country.
type CompareSlot struct {
	Input       string             `json:"input"`
	Status      string             `json:"status"`
	CountryCode string             `json:"country_code,omitempty"`
	Country     string             `json:"country,omitempty"`
	Computed    bool               `json:"computed,omitempty"`
	Summary     *aggregate.Summary `json:"summary,omitempty"`
	Points      []aggregate.Point  `json:"points,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// CompareResult holds one slot per requested country, in request order.
type CompareResult struct {
	Request  CompareParams `json:"request"`
	Resolved Resolved      `json:"resolved"`
	Mode     string        `json:"mode"`
	Years    []int         `json:"years"`
	Results  []CompareSlot `json:"results"`
}

// CatalogResult is a reference list.
type CatalogResult struct {
	Kind  catalog.Kind    `json:"kind"`
	Count int             `json:"count"`
	Items []catalog.Entry `json:"items"`
}

// SuggestResult is a catalog search result.
type SuggestResult struct {
	Query string       `json:"query"`
	Kind  catalog.Kind `json:"kind,omitempty"`
	Hits  []search.Hit `json:"hits"`
}

// DiagnoseResult holds the raw envelopes of the catalog probes.
type DiagnoseResult struct {
	CommoditiesProbe *psd.Envelope `json:"commodities_probe"`
	CountriesProbe   *psd.Envelope `json:"countries_probe"`
}

// YearCacheStatus describes the year cache.
type YearCacheStatus struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`
}

// World totals sources reported by Health. Official falls back to the
// world endpoint when a year's rows carry no world row; computed always
// sums the countries in that case.
const (
	WorldTotalsOfficial = "official"
	WorldTotalsComputed = "computed"
)

// HealthResult reports configuration and cache state.
type HealthResult struct {
	OK            bool                 `json:"ok"`
	KeyConfigured bool                 `json:"fas_key_configured"`
	Base          string               `json:"base"`
	Catalogs      map[catalog.Kind]int `json:"catalogs"`
	YearCache     YearCacheStatus      `json:"year_cache"`
	WorldCache    *YearCacheStatus     `json:"world_cache,omitempty"`
	WorldTotals   string               `json:"world_totals"`
}
