package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

// mapCache L2 giả trong bộ nhớ
type mapCache struct {
	mu      sync.Mutex
	items   map[string]models.GeocodeResult
	failGet bool
	cleared int
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]models.GeocodeResult{}}
}

func (m *mapCache) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errors.New("redis down")
	}
	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (m *mapCache) Set(ctx context.Context, key string, result models.GeocodeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = result
	return nil
}

func (m *mapCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = map[string]models.GeocodeResult{}
	m.cleared++
	return nil
}

func (m *mapCache) GetStats(ctx context.Context) (*CacheStats, error) {
	return &CacheStats{TotalItems: int64(len(m.items))}, nil
}

func (m *mapCache) Close() error { return nil }

func TestGeocodeCacheKey(t *testing.T) {
	testCases := []struct {
		name      string
		coord     models.Coordinate
		precision int
		want      string
	}{
		{name: "Rounds to three decimals", coord: models.Coordinate{Latitude: 39.92077, Longitude: 32.85411}, precision: 3, want: "revgeo:39.921:32.854"},
		{name: "Default precision", coord: models.Coordinate{Latitude: 41.0, Longitude: 29.0}, want: "revgeo:41.000:29.000"},
		{name: "Negative zero", coord: models.Coordinate{Latitude: -0.0001, Longitude: 0.0001}, precision: 3, want: "revgeo:0.000:0.000"},
		{name: "Negative coordinates", coord: models.Coordinate{Latitude: -33.8688, Longitude: -70.6693}, precision: 2, want: "revgeo:-33.87:-70.67"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GeocodeCacheKey(tc.coord, tc.precision))
		})
	}
}

func TestMemoryGeocodeCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryGeocodeCache(2, time.Minute, zap.NewNop())

	_, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "a", models.GeocodeResult{CityName: "Ankara"}))
	require.NoError(t, cache.Set(ctx, "b", models.GeocodeResult{CityName: "İzmir"}))
	require.NoError(t, cache.Set(ctx, "c", models.GeocodeResult{CityName: "Bursa"}))

	// size 2: "a" bị đẩy ra
	_, found, _ = cache.Get(ctx, "a")
	assert.False(t, found)
	got, found, _ := cache.Get(ctx, "c")
	require.True(t, found)
	assert.Equal(t, "Bursa", got.CityName)

	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(2), stats.TotalMiss)
	assert.Equal(t, int64(2), stats.TotalItems)

	require.NoError(t, cache.Clear(ctx))
	_, found, _ = cache.Get(ctx, "c")
	assert.False(t, found)
}

func TestMemoryGeocodeCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryGeocodeCache(10, 30*time.Millisecond, zap.NewNop())
	require.NoError(t, cache.Set(ctx, "k", models.GeocodeResult{CityName: "Ankara"}))

	assert.Eventually(t, func() bool {
		_, found, _ := cache.Get(ctx, "k")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestHybridGeocodeCache(t *testing.T) {
	ctx := context.Background()
	remote := newMapCache()
	memory := NewMemoryGeocodeCache(10, time.Minute, zap.NewNop())
	hybrid := NewHybridGeocodeCache(memory, remote, zap.NewNop())

	require.NoError(t, hybrid.Set(ctx, "k1", models.GeocodeResult{CityName: "Ankara"}))
	assert.Contains(t, remote.items, "k1")

	// chỉ có ở L2 -> được đẩy lên L1
	remote.items["k2"] = models.GeocodeResult{CityName: "İzmir"}
	got, found, err := hybrid.Get(ctx, "k2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "İzmir", got.CityName)
	_, inMemory, _ := memory.Get(ctx, "k2")
	assert.True(t, inMemory)

	// L2 lỗi -> coi như miss
	remote.failGet = true
	_, found, err = hybrid.Get(ctx, "k3")
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, hybrid.Clear(ctx))
	assert.Equal(t, 1, remote.cleared)
	_, found, _ = memory.Get(ctx, "k1")
	assert.False(t, found)
}

func TestHybridGeocodeCache_WithoutRemote(t *testing.T) {
	ctx := context.Background()
	hybrid := NewHybridGeocodeCache(NewMemoryGeocodeCache(10, time.Minute, zap.NewNop()), nil, zap.NewNop())

	require.NoError(t, hybrid.Set(ctx, "k", models.GeocodeResult{CityName: "Ankara"}))
	got, found, err := hybrid.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ankara", got.CityName)

	stats, err := hybrid.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalItems)
	assert.NoError(t, hybrid.Close())
}
