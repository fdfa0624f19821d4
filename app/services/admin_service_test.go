package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

// memoryStore LocationStore + LocationSource dùng chung một dataset
type memoryStore struct {
	ds      models.LocationDataset
	upserts int
}

func (m *memoryStore) Upsert(ctx context.Context, ds *models.LocationDataset) (int64, error) {
	m.upserts++
	m.ds = *ds
	return int64(len(ds.Provinces) + len(ds.Districts)), nil
}

func (m *memoryStore) LoadDataset(ctx context.Context) (*models.LocationDataset, error) {
	ds := m.ds
	return &ds, nil
}

type staticCounter int64

func (c staticCounter) Count(ctx context.Context) (int64, error) { return int64(c), nil }

func TestValidateLocationDataset(t *testing.T) {
	testCases := []struct {
		name         string
		mutate       func(ds *models.LocationDataset)
		wantPassed   bool
		wantErrors   int
		wantWarnings int
	}{
		{name: "Valid dataset", mutate: func(ds *models.LocationDataset) {}, wantPassed: true},
		{
			name:       "Empty",
			mutate:     func(ds *models.LocationDataset) { ds.Provinces = nil },
			wantErrors: 1,
		},
		{
			name: "Duplicate province id",
			mutate: func(ds *models.LocationDataset) {
				ds.Provinces = append(ds.Provinces, models.Province{ID: 6, Name: "Başka"})
			},
			wantErrors: 1,
		},
		{
			name: "Orphan district",
			mutate: func(ds *models.LocationDataset) {
				ds.Districts = append(ds.Districts, models.District{ID: 900, ProvinceID: 81, Name: "Düzce Merkez"})
			},
			wantErrors: 1,
		},
		{
			name: "Invalid coordinate and blank name",
			mutate: func(ds *models.LocationDataset) {
				ds.Provinces[0].Latitude = 123
				ds.Districts[0].Name = "  "
			},
			wantErrors: 2,
		},
		{
			name: "Same normalized district name in one province",
			mutate: func(ds *models.LocationDataset) {
				ds.Districts = append(ds.Districts, models.District{ID: 44, ProvinceID: 6, Name: "CANKAYA"})
			},
			wantPassed:   true,
			wantWarnings: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := testDataset()
			tc.mutate(&ds)

			v := ValidateLocationDataset(&ds)
			assert.Equal(t, tc.wantPassed, v.Passed, "errors: %v", v.Errors)
			assert.Len(t, v.Errors, tc.wantErrors)
			assert.Len(t, v.Warnings, tc.wantWarnings)
		})
	}
}

func TestAdminService_SeedLocations(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	locations := NewLocationService(store, zap.NewNop())
	cache := NewHybridGeocodeCache(NewMemoryGeocodeCache(10, time.Minute, zap.NewNop()), nil, zap.NewNop())
	geocode := NewGeocodeService(staticGeocoder(models.GeocodeResult{}, nil), cache, 3, zap.NewNop())
	admin := NewAdminService(store, locations, geocode, staticCounter(10), zap.NewNop())

	require.NoError(t, cache.Set(ctx, "revgeo:1.000:1.000", models.GeocodeResult{CityName: "stale"}))
	ds := testDataset()

	dry, err := admin.SeedLocations(ctx, &ds, true)
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.Zero(t, store.upserts)
	assert.False(t, locations.Loaded())

	res, err := admin.SeedLocations(ctx, &ds, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.DocumentsWritten)
	assert.True(t, res.CacheInvalidated)
	assert.True(t, locations.Loaded())
	assert.Equal(t, 4, locations.Stats().Districts)
	_, found, _ := cache.Get(ctx, "revgeo:1.000:1.000")
	assert.False(t, found)

	stats, err := admin.GetSystemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Businesses)
	assert.Equal(t, 3, stats.Locations.Provinces)
	assert.NotNil(t, stats.GeocodeCache)
}

func TestAdminService_SeedRejectsInvalidDataset(t *testing.T) {
	store := &memoryStore{}
	admin := NewAdminService(store, NewLocationService(store, zap.NewNop()), nil, nil, zap.NewNop())

	res, err := admin.SeedLocations(context.Background(), &models.LocationDataset{}, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDataset))
	require.NotNil(t, res)
	assert.False(t, res.Validation.Passed)
	assert.Zero(t, store.upserts)
}

func TestAdminService_ReloadLocations(t *testing.T) {
	store := &memoryStore{ds: testDataset()}
	admin := NewAdminService(nil, NewLocationService(store, zap.NewNop()), nil, nil, zap.NewNop())

	stats, err := admin.ReloadLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Provinces)
	assert.NoError(t, admin.InvalidateGeocodeCache(context.Background()))
}
