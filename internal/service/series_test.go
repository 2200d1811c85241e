package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropline/psdgate/internal/aggregate"
	domainerrors "github.com/cropline/psdgate/internal/errors"
)

func TestSeries_PartialFailures(t *testing.T) {
	fetcher := &fakeFetcher{withWorld: true, fail: map[int]error{
		2016: serverError("/y/2016"),
		2019: serverError("/y/2019"),
		2023: serverError("/y/2023"),
	}}
	h := newHarnessWith(t, newFakeSource(), fetcher)

	got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", Country: "brasil", From: 2015, To: 2024})
	require.NoError(t, err)

	require.Len(t, got.Points, 10)
	assert.Equal(t, 3, got.Failed)
	for i, p := range got.Points {
		year := 2015 + i
		assert.Equal(t, year, p.Year)
		switch year {
		case 2016, 2019, 2023:
			assert.Nil(t, p.Value)
			assert.NotEmpty(t, p.Error)
		default:
			require.NotNil(t, p.Value)
			assert.InDelta(t, float64(year-2000)*10, *p.Value, 1e-9)
			assert.Equal(t, aggregate.SourceCountry, p.Source)
			assert.Empty(t, p.Error)
		}
	}
}

func TestSeries_World(t *testing.T) {
	t.Run("official", func(t *testing.T) {
		h := newHarness(t)

		got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", From: 2020, To: 2021})
		require.NoError(t, err)

		require.Len(t, got.Points, 2)
		assert.Equal(t, aggregate.SourceOfficial, got.Points[0].Source)
		assert.InDelta(t, 400, *got.Points[0].Value, 1e-9)
	})

	t.Run("computed", func(t *testing.T) {
		h := newHarnessWith(t, newFakeSource(), &fakeFetcher{withWorld: false})

		got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", Country: "global", Metric: "estoque final", From: 2020, To: 2020})
		require.NoError(t, err)

		require.Len(t, got.Points, 1)
		assert.Equal(t, aggregate.EndingStocks, got.Resolved.Metric)
		assert.Equal(t, aggregate.SourceComputed, got.Points[0].Source)
		assert.InDelta(t, 60, *got.Points[0].Value, 1e-9)
	})
}

func TestSeries_WorldTotalsEndpoint(t *testing.T) {
	h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: false}, worldTotals())

	got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", From: 2020, To: 2021})
	require.NoError(t, err)

	require.Len(t, got.Points, 2)
	for i, p := range got.Points {
		assert.Equal(t, aggregate.SourceOfficial, p.Source)
		require.NotNil(t, p.Value)
		assert.InDelta(t, float64(2020+i-1600), *p.Value, 1e-9)
	}
	assert.Equal(t, 2, h.world.Calls())
}

func TestCompare_WorldTotalsEndpoint(t *testing.T) {
	h := newHarnessWithWorld(t, newFakeSource(), &fakeFetcher{withWorld: false}, worldTotals())

	got, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "brasil,mundo", Year: 2020})
	require.NoError(t, err)

	require.Len(t, got.Results, 2)
	assert.InDelta(t, 200, got.Results[0].Summary.Values["Production"], 1e-9)

	world := got.Results[1]
	assert.Equal(t, StatusOK, world.Status)
	assert.False(t, world.Computed)
	require.NotNil(t, world.Summary)
	assert.InDelta(t, 420, world.Summary.Values["Production"], 1e-9)
	assert.Equal(t, 1, h.world.Calls())

	_, err = h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "brasil,argentina", Year: 2021})
	require.NoError(t, err)
	assert.Equal(t, 1, h.world.Calls())
}

func TestSeries_MissingYearIsNullPoint(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", Country: "brazil", Metric: "MY Imports", From: 2020, To: 2022})
	require.NoError(t, err)

	require.Len(t, got.Points, 3)
	for _, p := range got.Points {
		assert.Nil(t, p.Value)
		assert.Empty(t, p.Error)
	}
	assert.Zero(t, got.Failed)
}

func TestSeries_RangeValidation(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"inverted", 2024, 2015},
		{"too long", 1960, 2000},
		{"missing to", 2020, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", From: tt.from, To: tt.to})

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
			assert.Zero(t, h.fetcher.Calls())
		})
	}
}

func TestSeries_FortyYearsAllowed(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Series(context.Background(), SeriesParams{Commodity: "soja", Country: "brazil", From: 1981, To: 2020})

	require.NoError(t, err)
	assert.Len(t, got.Points, aggregate.MaxSeriesYears)
}

func TestCompare_YearMode(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "brasil,argentina,xx-unknown", Year: 2020})
	require.NoError(t, err)

	assert.Equal(t, ModeYear, got.Mode)
	require.Len(t, got.Results, 3)

	assert.Equal(t, StatusOK, got.Results[0].Status)
	assert.Equal(t, "BR", got.Results[0].CountryCode)
	require.NotNil(t, got.Results[0].Summary)
	assert.InDelta(t, 200, got.Results[0].Summary.Values["Production"], 1e-9)

	assert.Equal(t, StatusOK, got.Results[1].Status)
	assert.Equal(t, "AR", got.Results[1].CountryCode)

	assert.Equal(t, "xx-unknown", got.Results[2].Input)
	assert.Equal(t, StatusUnresolved, got.Results[2].Status)
	assert.Nil(t, got.Results[2].Summary)

	assert.Equal(t, 1, h.fetcher.Calls())
}

func TestCompare_StatusesAndDedupe(t *testing.T) {
	h := newHarness(t)

	got, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "Brasil | brasil; Cote d'Ivoire;mundo", Year: 2020})
	require.NoError(t, err)

	require.Len(t, got.Results, 3)
	assert.Equal(t, StatusOK, got.Results[0].Status)
	assert.Equal(t, StatusNoData, got.Results[1].Status)
	assert.Equal(t, StatusOK, got.Results[2].Status)
	assert.InDelta(t, 400, got.Results[2].Summary.Values["Production"], 1e-9)
}

func TestCompare_SeriesMode(t *testing.T) {
	fetcher := &fakeFetcher{withWorld: true, fail: map[int]error{2021: serverError("/y/2021")}}
	h := newHarnessWith(t, newFakeSource(), fetcher)

	got, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "brazil,atlantis", From: 2020, To: 2022})
	require.NoError(t, err)

	assert.Equal(t, ModeSeries, got.Mode)
	assert.Equal(t, []int{2020, 2021, 2022}, got.Years)
	assert.Equal(t, aggregate.Production, got.Resolved.Metric)
	require.Len(t, got.Results, 2)

	brazil := got.Results[0]
	assert.Equal(t, StatusOK, brazil.Status)
	require.Len(t, brazil.Points, 3)
	assert.Nil(t, brazil.Points[1].Value)
	assert.NotEmpty(t, brazil.Points[1].Error)
	assert.InDelta(t, 220, *brazil.Points[2].Value, 1e-9)

	assert.Equal(t, StatusUnresolved, got.Results[1].Status)
	assert.Equal(t, 3, fetcher.Calls())
}

func TestCompare_UpstreamFailureStaysInSlots(t *testing.T) {
	fetcher := &fakeFetcher{withWorld: true, fail: map[int]error{2020: serverError("/y/2020")}}
	h := newHarnessWith(t, newFakeSource(), fetcher)

	got, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "soja", Countries: "brazil,argentina", Year: 2020})
	require.NoError(t, err)

	for _, slot := range got.Results {
		assert.Equal(t, StatusUpstreamError, slot.Status)
		assert.NotEmpty(t, slot.Error)
	}
}

func TestCompare_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params CompareParams
	}{
		{"no mode", CompareParams{Commodity: "soja", Countries: "brazil"}},
		{"both modes", CompareParams{Commodity: "soja", Countries: "brazil", Year: 2020, From: 2018, To: 2020}},
		{"from without to", CompareParams{Commodity: "soja", Countries: "brazil", From: 2018}},
		{"inverted", CompareParams{Commodity: "soja", Countries: "brazil", From: 2020, To: 2018}},
		{"empty list", CompareParams{Commodity: "soja", Countries: " , ;", Year: 2020}},
		{"no countries", CompareParams{Commodity: "soja", Year: 2020}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.svc.Compare(context.Background(), tt.params)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
			assert.Zero(t, h.fetcher.Calls())
		})
	}
}

func TestCompare_UnresolvedCommodityFails(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Compare(context.Background(), CompareParams{Commodity: "unobtainium", Countries: "brazil", Year: 2020})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnresolved))
}
