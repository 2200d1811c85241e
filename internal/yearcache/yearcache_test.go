package yearcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropline/psdgate/internal/catalog"
	"github.com/cropline/psdgate/internal/metrics"
)

type fakeFetcher struct {
	calls map[Key]int
	fail  map[Key]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[Key]int), fail: make(map[Key]error)}
}

func (f *fakeFetcher) YearRows(_ context.Context, code string, year int) ([]catalog.Row, error) {
	key := Key{Code: code, Year: year}
	f.calls[key]++
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	v := float64(year)
	return []catalog.Row{{CommodityCode: code, MarketYear: year, CountryCode: "BR", Attribute: "Production", Value: &v}}, nil
}

func TestCache_HitAvoidsFetch(t *testing.T) {
	f := newFakeFetcher()
	c, err := New(f, 0, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := c.Get(ctx, "0440000", 2023)
	require.NoError(t, err)
	second, err := c.Get(ctx, "0440000", 2023)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls[Key{"0440000", 2023}])
	assert.Equal(t, DefaultCapacity, c.Capacity())
}

func TestCache_EvictsOldestInserted(t *testing.T) {
	f := newFakeFetcher()
	m := metrics.New(prometheus.NewRegistry())
	c, err := New(f, 50, m, nil)
	require.NoError(t, err)
	ctx := context.Background()

	for i := range 51 {
		_, err := c.Get(ctx, fmt.Sprintf("C%02d", i), 2020)
		require.NoError(t, err)
	}

	assert.Equal(t, 50, c.Len())
	assert.False(t, c.Contains(Key{"C00", 2020}))
	assert.True(t, c.Contains(Key{"C01", 2020}))
	assert.True(t, c.Contains(Key{"C50", 2020}))

	keys := c.Keys()
	assert.Equal(t, Key{"C01", 2020}, keys[0])
	assert.Equal(t, Key{"C50", 2020}, keys[len(keys)-1])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictions.WithLabelValues(metrics.CacheYear)))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.CacheEntries.WithLabelValues(metrics.CacheYear)))
}

func TestCache_ReadsDoNotPromote(t *testing.T) {
	f := newFakeFetcher()
	c, err := New(f, 3, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		_, err := c.Get(ctx, code, 2021)
		require.NoError(t, err)
	}

	// a hit on the oldest entry must not save it from eviction
	_, err = c.Get(ctx, "A", 2021)
	require.NoError(t, err)
	_, err = c.Get(ctx, "D", 2021)
	require.NoError(t, err)

	assert.False(t, c.Contains(Key{"A", 2021}))
	assert.Equal(t, []Key{{"B", 2021}, {"C", 2021}, {"D", 2021}}, c.Keys())
	assert.Equal(t, 1, f.calls[Key{"A", 2021}])
}

func TestCache_ErrorsNotCached(t *testing.T) {
	f := newFakeFetcher()
	key := Key{"0440000", 2019}
	f.fail[key] = errors.New("upstream down")
	c, err := New(f, 5, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Get(ctx, key.Code, key.Year)
	require.Error(t, err)
	assert.Zero(t, c.Len())

	delete(f.fail, key)
	rows, err := c.Get(ctx, key.Code, key.Year)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, f.calls[key])
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "2222000/2024", Key{Code: "2222000", Year: 2024}.String())
}

func TestCache_NamedReportsSeparately(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	years, err := New(newFakeFetcher(), 5, m, nil)
	require.NoError(t, err)
	world, err := NewNamed(metrics.CacheWorld, newFakeFetcher(), 5, m, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = years.Get(ctx, "2222000", 2020)
	require.NoError(t, err)
	_, err = world.Get(ctx, "2222000", 2020)
	require.NoError(t, err)
	_, err = world.Get(ctx, "2222000", 2020)
	require.NoError(t, err)

	assert.Equal(t, metrics.CacheYear, years.Name())
	assert.Equal(t, metrics.CacheWorld, world.Name())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues(metrics.CacheYear)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues(metrics.CacheWorld)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits.WithLabelValues(metrics.CacheWorld)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CacheHits.WithLabelValues(metrics.CacheYear)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEntries.WithLabelValues(metrics.CacheWorld)))
}
