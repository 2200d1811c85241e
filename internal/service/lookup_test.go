package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropline/psdgate/internal/aggregate"
	"github.com/cropline/psdgate/internal/catalog"
	domainerrors "github.com/cropline/psdgate/internal/errors"
	"github.com/cropline/psdgate/internal/psd"
)

func TestLookup_Country(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "brasil", Year: 2020})
	require.NoError(t, err)

	assert.Equal(t, Resolved{CommodityCode: soyCode, Commodity: "Soybeans", CountryCode: "BR", Country: "Brazil"}, got.Resolved)
	assert.False(t, got.Computed)
	assert.Equal(t, map[string]float64{"Production": 200, "Ending Stocks": 30}, got.Summary.Values)
	assert.Equal(t, "(1000 MT)", got.Summary.Units["Production"])
	assert.Equal(t, "BR", got.Summary.Meta.CountryCode)
	assert.Equal(t, 2020, got.Summary.Meta.MarketYear)
}

func TestLookup_AllAttributes(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soybeans", Country: "Brazil", Year: 2020, All: true})
	require.NoError(t, err)

	assert.Contains(t, got.Summary.Values, areaHarv)
}

func TestLookup_WorldOfficial(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "mundo", Year: 2020})
	require.NoError(t, err)

	assert.False(t, got.Computed)
	assert.Equal(t, "WD", got.Resolved.CountryCode)
	assert.Equal(t, catalog.WorldName, got.Resolved.Country)
	assert.InDelta(t, 400, got.Summary.Values["Production"], 1e-9)
}

func TestLookup_WorldComputed(t *testing.T) {
	h := newHarnessWith(t, newFakeSource(), &fakeFetcher{withWorld: false})

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Year: 2020})
	require.NoError(t, err)

	assert.True(t, got.Computed)
	assert.Equal(t, DefaultCountry, got.Request.Country)
	assert.Equal(t, catalog.WorldName, got.Summary.Meta.Country)
	assert.InDelta(t, 200+50+120, got.Summary.Values["Production"], 1e-9)
	assert.InDelta(t, 60, got.Summary.Values["Ending Stocks"], 1e-9)
}

func TestLookup_WorldWithoutCatalogEntry(t *testing.T) {
	source := newFakeSource()
	source.countries = source.countries[:4]
	h := newHarnessWith(t, source, &fakeFetcher{withWorld: true})

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "world", Year: 2020})
	require.NoError(t, err)

	// The world row is still recognized by name.
	assert.False(t, got.Computed)
	assert.InDelta(t, 400, got.Summary.Values["Production"], 1e-9)
}

func TestLookup_WorldTotalsEndpoint(t *testing.T) {
	t.Run("fetched when rows lack a world row", func(t *testing.T) {
		h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: false}, worldTotals())

		for range 2 {
			got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "mundo", Year: 2020})
			require.NoError(t, err)

			assert.False(t, got.Computed)
			assert.Equal(t, "WD", got.Resolved.CountryCode)
			assert.InDelta(t, 420, got.Summary.Values["Production"], 1e-9)
			assert.InDelta(t, 65, got.Summary.Values["Ending Stocks"], 1e-9)
			assert.Equal(t, catalog.WorldName, got.Summary.Meta.Country)
		}
		assert.Equal(t, 1, h.world.Calls())
	})

	t.Run("skipped when rows carry a world row", func(t *testing.T) {
		h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: true}, worldTotals())

		got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Year: 2020})
		require.NoError(t, err)

		assert.False(t, got.Computed)
		assert.InDelta(t, 400, got.Summary.Values["Production"], 1e-9)
		assert.Equal(t, 0, h.world.Calls())
	})

	t.Run("skipped for a country", func(t *testing.T) {
		h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: false}, worldTotals())

		_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "brasil", Year: 2020})
		require.NoError(t, err)

		assert.Equal(t, 0, h.world.Calls())
	})

	t.Run("failure falls back to computed", func(t *testing.T) {
		world := &fakeFetcher{fail: map[int]error{2020: serverError("/commodity/2222000/world/year/2020")}}
		h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: false}, world)

		got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Year: 2020})
		require.NoError(t, err)

		assert.True(t, got.Computed)
		assert.InDelta(t, 200+50+120, got.Summary.Values["Production"], 1e-9)
		assert.Equal(t, 1, world.Calls())
	})
}

func TestLookup_ValidationBeforeFetch(t *testing.T) {
	tests := []struct {
		name   string
		params LookupParams
	}{
		{"missing commodity", LookupParams{Country: "brazil", Year: 2020}},
		{"blank commodity", LookupParams{Commodity: "  ", Year: 2020}},
		{"missing year", LookupParams{Commodity: "soja"}},
		{"year out of range", LookupParams{Commodity: "soja", Year: 1500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.svc.Lookup(context.Background(), tt.params)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
			assert.Zero(t, h.fetcher.Calls())
		})
	}
}

func TestLookup_UnresolvedCommodity(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soybeen meal", Country: "brazil", Year: 2020})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnresolved))

	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, http.StatusNotFound, derr.HTTPStatus())
	details, ok := derr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "soybeen meal", details["input"])
	assert.Zero(t, h.fetcher.Calls())
}

func TestLookup_UnresolvedCountry(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "atlantis", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnresolved))
	assert.Contains(t, err.Error(), "atlantis")
}

func TestLookup_NoData(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "Cote d'Ivoire", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoData))
	assert.False(t, errors.Is(err, domainerrors.ErrUnresolved))
}

func TestLookup_UpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{withWorld: true, fail: map[int]error{2020: serverError("/commodity/2222000/country/all/year/2020")}}
	h := newHarnessWith(t, newFakeSource(), fetcher)

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Country: "brazil", Year: 2020})

	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domainerrors.CodeUpstream, derr.Code)
	assert.Equal(t, http.StatusBadGateway, derr.HTTPStatus())
	details, ok := derr.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, details["status"])
	assert.True(t, errors.Is(err, psd.ErrServer))
}

func TestLookup_MissingAPIKeyIsInternal(t *testing.T) {
	source := newFakeSource()
	source.commodityErr = &psd.Error{Op: "commodities", Path: "/commodities", Status: http.StatusInternalServerError, Err: psd.ErrNoAPIKey}
	h := newHarnessWith(t, source, &fakeFetcher{})

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInternal))
	assert.True(t, errors.Is(err, psd.ErrNoAPIKey))
}

func TestLookup_CatalogFailureIsUpstream(t *testing.T) {
	source := newFakeSource()
	source.commodityErr = &psd.Error{Op: "commodities", Path: "/commodities", Status: http.StatusBadGateway, Err: psd.ErrConnection}
	h := newHarnessWith(t, source, &fakeFetcher{})

	_, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: "soja", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUpstream))
}

func TestLookup_NumericCodeSkipsCatalog(t *testing.T) {
	source := newFakeSource()
	source.commodityErr = errors.New("must not be called")
	h := newHarnessWith(t, source, &fakeFetcher{withWorld: true})

	got, err := h.svc.Lookup(context.Background(), LookupParams{Commodity: soyCode, Country: "brazil", Year: 2021})

	require.NoError(t, err)
	assert.Equal(t, soyCode, got.Resolved.CommodityCode)
}

func TestLookup_UsesYearCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for range 3 {
		_, err := h.svc.Lookup(ctx, LookupParams{Commodity: "soja", Country: "brazil", Year: 2020})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, h.fetcher.Calls())
}

func topRows(_ string, year int) []catalog.Row {
	rows := make([]catalog.Row, 0, 9)
	for i, v := range []float64{30, 80, 10, 50, 70, 20, 60, 40} {
		code := fmt.Sprintf("C%d", i)
		r := row(code, "Country "+code, "Production", v)
		r.MarketYear = year
		rows = append(rows, r)
	}
	world := row("WD", "World", "Production", 1000)
	world.MarketYear = year
	return append(rows, world)
}

func TestTop(t *testing.T) {
	h := newHarnessWith(t, newFakeSource(), &fakeFetcher{rows: topRows})

	got, err := h.svc.Top(context.Background(), TopParams{Commodity: "soja", Metric: "producao", Year: 2020, N: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, got.N)
	assert.Equal(t, aggregate.Production, got.Resolved.Metric)
	require.Len(t, got.Items, 5)
	values := make([]float64, len(got.Items))
	for i, item := range got.Items {
		values[i] = item.Value
		assert.NotEqual(t, "WD", item.CountryCode)
		assert.Equal(t, i+1, item.Rank)
	}
	assert.Equal(t, []float64{80, 70, 60, 50, 40}, values)
}

func TestTop_NClamped(t *testing.T) {
	tests := []struct {
		n    int
		want int
		len  int
	}{
		{0, aggregate.DefaultTopN, 8},
		{-3, aggregate.MinTopN, 1},
		{500, aggregate.MaxTopN, 8},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			h := newHarnessWith(t, newFakeSource(), &fakeFetcher{rows: topRows})

			got, err := h.svc.Top(context.Background(), TopParams{Commodity: "soja", Year: 2020, N: tt.n})

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.N)
			assert.Len(t, got.Items, tt.len)
		})
	}
}

func TestTop_NoData(t *testing.T) {
	h := newHarnessWith(t, newFakeSource(), &fakeFetcher{rows: topRows})

	_, err := h.svc.Top(context.Background(), TopParams{Commodity: "soja", Metric: "exportacao", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNoData))
}
