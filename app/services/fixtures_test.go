package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/geocoder"
	"github.com/catalog-locator/internal/resolver"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testDataset() models.LocationDataset {
	return models.LocationDataset{
		Provinces: []models.Province{
			{ID: 6, Name: "Ankara", Latitude: 39.9334, Longitude: 32.8597},
			{ID: 34, Name: "İstanbul", Latitude: 41.0082, Longitude: 28.9784},
			{ID: 35, Name: "İzmir", Latitude: 38.4237, Longitude: 27.1428},
		},
		Districts: []models.District{
			{ID: 42, ProvinceID: 6, Name: "Çankaya", Latitude: 39.9179, Longitude: 32.8627},
			{ID: 43, ProvinceID: 6, Name: "Keçiören", Latitude: 39.9833, Longitude: 32.8667},
			{ID: 341, ProvinceID: 34, Name: "Kadıköy", Latitude: 40.9819, Longitude: 29.0576},
			{ID: 351, ProvinceID: 35, Name: "Konak", Latitude: 38.4189, Longitude: 27.1287},
		},
	}
}

func testBusinesses() []models.BusinessRecord {
	return []models.BusinessRecord{
		{ID: "b1", Name: "Kuaför Ayşe", Category: "Güzellik", SubcategoryID: "hair", ProvinceID: intPtr(6), DistrictID: intPtr(42)},
		{ID: "b2", Name: "Berber Mehmet", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(6), DistrictID: intPtr(42),
			Latitude: floatPtr(39.9180), Longitude: floatPtr(32.8630)},
		{ID: "b3", Name: "Diş Kliniği", Category: "Sağlık", SubcategoryID: "dentist", ProvinceID: intPtr(34), DistrictID: intPtr(341)},
		{ID: "b4", Name: "Berber Ali", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(34), DistrictID: intPtr(341)},
		{ID: "b5", Name: "Spa Merkezi", Category: "Güzellik", SubcategoryID: "spa", ProvinceID: intPtr(6), DistrictID: intPtr(43)},
		{ID: "b6", Name: "Keçiören Berber", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(6), DistrictID: intPtr(43),
			Latitude: floatPtr(39.9850), Longitude: floatPtr(32.8650)},
		{ID: "b7", Name: "Veteriner", Category: "Hayvan", SubcategoryID: "vet", ProvinceID: intPtr(35), DistrictID: intPtr(351)},
		{ID: "b8", Name: "Berber Konak", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(35), DistrictID: intPtr(351)},
		{ID: "b9", Name: "Nail Studio", Category: "Güzellik", SubcategoryID: "nails"},
		{ID: "b10", Name: "Fizyoterapi", Category: "Sağlık", SubcategoryID: "physio", ProvinceID: intPtr(6)},
	}
}

func loadedLocations(t *testing.T) *LocationService {
	t.Helper()
	ls := NewLocationService(&StaticLocationSource{Dataset: testDataset()}, zap.NewNop())
	require.NoError(t, ls.Reload(context.Background()))
	return ls
}

func newTestCatalogService(t *testing.T, gc geocoder.ReverseGeocoder) (*CatalogService, *LocationService) {
	t.Helper()
	ls := loadedLocations(t)
	res := resolver.NewLocationResolver(resolver.DefaultOptions())
	repo := NewStaticBusinessRepository(testBusinesses())
	return NewCatalogService(res, gc, repo, ls, 0, zap.NewNop()), ls
}

func resultIDs(results []models.BusinessResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}
