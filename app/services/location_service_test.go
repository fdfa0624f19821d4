package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

type failingSource struct{}

func (failingSource) LoadDataset(ctx context.Context) (*models.LocationDataset, error) {
	return nil, errors.New("mongo down")
}

func TestLocationService_Snapshot(t *testing.T) {
	ls := loadedLocations(t)

	assert.True(t, ls.Loaded())
	assert.Len(t, ls.Provinces(), 3)
	assert.Equal(t, []int{42, 43}, districtIDs(ls.DistrictsOf(6)))
	assert.Empty(t, ls.DistrictsOf(99))

	p, ok := ls.Province(34)
	require.True(t, ok)
	assert.Equal(t, "İstanbul", p.Name)
	_, ok = ls.Province(1)
	assert.False(t, ok)

	stats := ls.Stats()
	assert.Equal(t, 3, stats.Provinces)
	assert.Equal(t, 4, stats.Districts)
	assert.False(t, stats.LoadedAt.IsZero())
}

func TestLocationService_ReturnsCopies(t *testing.T) {
	ls := loadedLocations(t)

	provinces := ls.Provinces()
	provinces[0].Name = "changed"
	districts := ls.DistrictsOf(6)
	districts[0].Name = "changed"

	assert.Equal(t, "Ankara", ls.Provinces()[0].Name)
	assert.Equal(t, "Çankaya", ls.DistrictsOf(6)[0].Name)
}

func TestLocationService_DropsOrphanDistricts(t *testing.T) {
	ds := testDataset()
	ds.Districts = append(ds.Districts, models.District{ID: 900, ProvinceID: 81, Name: "Orphan"})
	ls := NewLocationService(&StaticLocationSource{Dataset: ds}, zap.NewNop())
	require.NoError(t, ls.Reload(context.Background()))

	assert.Equal(t, 4, ls.Stats().Districts)
	assert.Empty(t, ls.DistrictsOf(81))
}

func TestLocationService_ReloadFailureKeepsSnapshot(t *testing.T) {
	ls := loadedLocations(t)
	ls.source = failingSource{}

	require.Error(t, ls.Reload(context.Background()))
	assert.Len(t, ls.Provinces(), 3)
}

func TestLocationService_NotLoaded(t *testing.T) {
	ls := NewLocationService(failingSource{}, zap.NewNop())

	assert.False(t, ls.Loaded())
	assert.Empty(t, ls.Provinces())
	assert.Empty(t, ls.DistrictsOf(6))
	assert.Zero(t, ls.Stats().Provinces)
}

func TestLocationService_ConcurrentReadsDuringReload(t *testing.T) {
	ls := loadedLocations(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.Len(t, ls.DistrictsOf(6), 2)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, ls.Reload(ctx))
	}
	wg.Wait()
}

func TestFileLocationSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	b, err := json.Marshal(testDataset())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))

	ls := NewLocationService(&FileLocationSource{Path: path}, zap.NewNop())
	require.NoError(t, ls.Reload(context.Background()))
	assert.Equal(t, testDataset().Provinces, ls.Provinces())

	_, err = ReadLocationDataset(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func districtIDs(ds []models.District) []int {
	out := make([]int, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}
