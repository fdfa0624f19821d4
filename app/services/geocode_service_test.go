package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/geocoder"
)

func TestGeocodeService_CachesSuccessfulLookups(t *testing.T) {
	var calls atomic.Int32
	provider := staticGeocoder(models.GeocodeResult{CityName: "Ankara", DistrictName: "Çankaya"}, &calls)
	cache := NewHybridGeocodeCache(NewMemoryGeocodeCache(100, time.Minute, zap.NewNop()), nil, zap.NewNop())
	svc := NewGeocodeService(provider, cache, 3, zap.NewNop())
	ctx := context.Background()

	first, err := svc.ReverseGeocode(ctx, models.Coordinate{Latitude: 39.92031, Longitude: 32.85412})
	require.NoError(t, err)
	// cùng ô làm tròn 3 chữ số -> cache hit
	second, err := svc.ReverseGeocode(ctx, models.Coordinate{Latitude: 39.92049, Longitude: 32.85448})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = svc.ReverseGeocode(ctx, models.Coordinate{Latitude: 39.95, Longitude: 32.85})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.ReverseGeocode(ctx, models.Coordinate{Latitude: 39.92031, Longitude: 32.85412})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocodeService_DoesNotCacheFailures(t *testing.T) {
	var calls atomic.Int32
	provider := geocoder.Func(func(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error) {
		calls.Add(1)
		return models.GeocodeResult{}, errors.New("timeout")
	})
	memory := NewMemoryGeocodeCache(100, time.Minute, zap.NewNop())
	svc := NewGeocodeService(provider, memory, 3, zap.NewNop())
	coord := models.Coordinate{Latitude: 1, Longitude: 1}

	for i := 0; i < 2; i++ {
		_, err := svc.ReverseGeocode(context.Background(), coord)
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())

	stats, err := svc.CacheStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalItems)
}

func TestGeocodeService_WithoutCache(t *testing.T) {
	var calls atomic.Int32
	svc := NewGeocodeService(staticGeocoder(models.GeocodeResult{CityName: "İzmir"}, &calls), nil, 3, zap.NewNop())

	for i := 0; i < 2; i++ {
		got, err := svc.ReverseGeocode(context.Background(), models.Coordinate{})
		require.NoError(t, err)
		assert.Equal(t, "İzmir", got.CityName)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.NoError(t, svc.Invalidate(context.Background()))

	stats, err := svc.CacheStats(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, stats)
}
