package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cropline/psdgate/internal/alias"
	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/psd"
	"github.com/cropline/psdgate/internal/resolve"
	"github.com/cropline/psdgate/internal/search"
	"github.com/cropline/psdgate/internal/yearcache"
)

const (
	soyCode  = "2222000"
	corn     = "0440000"
	areaHarv = "Area Harvested"
)

func ptr(v float64) *float64 { return &v }

func row(code, name, attr string, v float64) catalog.Row {
	return catalog.Row{
		CommodityCode:        soyCode,
		CommodityDescription: "Soybeans",
		CountryCode:          code,
		CountryName:          name,
		Attribute:            attr,
		Unit:                 "(1000 MT)",
		Value:                ptr(v),
	}
}

// soyRows is one year of soybean rows. Brazil's production grows with
// the year so series can be checked point by point.
func soyRows(year int, withWorld bool) []catalog.Row {
	rows := []catalog.Row{
		row("BR", "Brazil", "Production", float64(year-2000)*10),
		row("BR", "Brazil", "Ending Stocks", 30),
		row("BR", "Brazil", areaHarv, 40),
		row("AR", "Argentina", "Production", 50),
		row("AR", "Argentina", "Ending Stocks", 20),
		row("US", "United States", "Production", 120),
		row("US", "United States", "Ending Stocks", 10),
	}
	if withWorld {
		rows = append(rows,
			row("WD", "World", "Production", 400),
			row("WD", "World", "Ending Stocks", 60),
		)
	}
	for i := range rows {
		rows[i].MarketYear = year
	}
	return rows
}

type fakeSource struct {
	commodities  []catalog.Entry
	countries    []catalog.Entry
	commodityErr error
	countryErr   error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		commodities: []catalog.Entry{
			{Code: "0813100", Name: "Meal, Soybean"},
			{Code: "4232000", Name: "Oil, Soybean"},
			{Code: soyCode, Name: "Soybeans"},
			{Code: corn, Name: "Corn"},
		},
		countries: []catalog.Entry{
			{Code: "AR", Name: "Argentina"},
			{Code: "BR", Name: "Brazil"},
			{Code: "IV", Name: "Cote d'Ivoire"},
			{Code: "US", Name: "United States"},
			{Code: "WD", Name: "World"},
		},
	}
}

func (f *fakeSource) ListCommodities(context.Context) ([]catalog.Entry, error) {
	return f.commodities, f.commodityErr
}

func (f *fakeSource) ListCountries(context.Context) ([]catalog.Entry, error) {
	return f.countries, f.countryErr
}

func (f *fakeSource) ListAttributes(context.Context) ([]catalog.Entry, error) {
	return nil, nil
}

func (f *fakeSource) ListUnits(context.Context) ([]catalog.Entry, error) {
	return nil, nil
}

type fakeFetcher struct {
	mu        sync.Mutex
	withWorld bool
	rows      func(code string, year int) []catalog.Row
	fail      map[int]error
	calls     int
}

func (f *fakeFetcher) YearRows(_ context.Context, code string, year int) ([]catalog.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[year]; ok {
		return nil, err
	}
	if f.rows != nil {
		return f.rows(code, year), nil
	}
	if code != soyCode {
		return nil, nil
	}
	return soyRows(year, f.withWorld), nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeUpstream struct {
	envelopes map[string]*psd.Envelope
	errs      map[string]error
	hasKey    bool
}

func (f *fakeUpstream) Fetch(_ context.Context, path string, _ url.Values) (*psd.Envelope, error) {
	return f.envelopes[path], f.errs[path]
}

func (f *fakeUpstream) HasAPIKey() bool  { return f.hasKey }
func (f *fakeUpstream) BaseURL() string  { return psd.DefaultBaseURL }
func (f *fakeUpstream) Paths() psd.Paths { return psd.DefaultPaths() }

type harness struct {
	svc      *PSDService
	source   *fakeSource
	fetcher  *fakeFetcher
	upstream *fakeUpstream
	years    *yearcache.Cache
	world    *fakeFetcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, newFakeSource(), &fakeFetcher{withWorld: true})
}

func newHarnessWith(t *testing.T, source *fakeSource, fetcher *fakeFetcher) *harness {
	t.Helper()
	return newHarnessWithWorld(t, source, fetcher, nil)
}

// newHarnessWithWorld wires world as the official world totals source.
func newHarnessWithWorld(t *testing.T, source *fakeSource, fetcher, world *fakeFetcher) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	aliases := alias.Default()
	cat := catalog.New(source, nil, logger)

	years, err := yearcache.New(fetcher, yearcache.DefaultCapacity, nil, logger)
	require.NoError(t, err)

	var worldYears *yearcache.Cache
	if world != nil {
		worldYears, err = yearcache.NewNamed("world", world, yearcache.DefaultCapacity, nil, logger)
		require.NoError(t, err)
	}

	index, err := search.NewIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	upstream := &fakeUpstream{
		hasKey: true,
		envelopes: map[string]*psd.Envelope{
			"/commodities": {OK: true, StatusCode: http.StatusOK, URL: psd.DefaultBaseURL + "/commodities", Data: []any{}},
		},
		errs: map[string]error{},
	}

	svc := NewPSDService(Deps{
		Catalog:     cat,
		Years:       years,
		WorldYears:  worldYears,
		Commodities: resolve.NewCommodityResolver(cat, aliases, nil, logger),
		Countries:   resolve.NewCountryResolver(cat, aliases, nil, logger),
		Metrics:     resolve.NewMetricResolver(aliases),
		Index:       index,
		Upstream:    upstream,
		Logger:      logger,
	})

	return &harness{svc: svc, source: source, fetcher: fetcher, upstream: upstream, years: years, world: world}
}

func serverError(path string) error {
	return &psd.Error{Op: "year", Path: path, Status: http.StatusInternalServerError, Err: psd.ErrServer}
}

// worldTotals serves official world rows the way the world endpoint does,
// with no country on the rows.
func worldTotals() *fakeFetcher {
	return &fakeFetcher{rows: func(code string, year int) []catalog.Row {
		if code != soyCode {
			return nil
		}
		return []catalog.Row{
			{CommodityCode: code, MarketYear: year, Attribute: "Production", Unit: "(1000 MT)", Value: ptr(float64(year - 1600))},
			{CommodityCode: code, MarketYear: year, Attribute: "Ending Stocks", Unit: "(1000 MT)", Value: ptr(65)},
		}
	}}
}
