package filter

import (
	"fmt"
	"testing"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// sampleCatalog 10 doanh nghiệp: 4 ở tỉnh 6, trong đó 2 là barber
func sampleCatalog() []models.BusinessRecord {
	return []models.BusinessRecord{
		{ID: "b1", Name: "Kuaför Ayşe", Category: "Güzellik", SubcategoryID: "hair", ProvinceID: intPtr(6), DistrictID: intPtr(42)},
		{ID: "b2", Name: "Berber Mehmet", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(6), DistrictID: intPtr(42), ServiceNames: []string{"Sakal Tıraşı", "Saç Kesimi"}},
		{ID: "b3", Name: "Diş Kliniği", Category: "Sağlık", SubcategoryID: "dentist", ProvinceID: intPtr(34)},
		{ID: "b4", Name: "Berber Ali", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(34)},
		{ID: "b5", Name: "Spa Merkezi", Category: "Güzellik", SubcategoryID: "spa", ProvinceID: intPtr(6), DistrictID: intPtr(43)},
		{ID: "b6", Name: "Çankaya Berber", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(6), DistrictID: intPtr(43)},
		{ID: "b7", Name: "Veteriner", Category: "Hayvan", SubcategoryID: "vet", ProvinceID: intPtr(35)},
		{ID: "b8", Name: "Berber İzmir", Category: "Güzellik", SubcategoryID: "barber", ProvinceID: intPtr(35)},
		{ID: "b9", Name: "Nail Studio", Category: "Güzellik", SubcategoryID: "nails"},
		{ID: "b10", Name: "Fizyoterapi", Category: "Sağlık", SubcategoryID: "physio", ProvinceID: intPtr(1)},
	}
}

func ids(results []models.BusinessResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func resolvedProvince(id int) *models.ResolvedLocation {
	return &models.ResolvedLocation{Province: &models.Province{ID: id}, ProvinceMatch: models.MatchTierExplicit}
}

func TestApply_NoFiltersIsIdentity(t *testing.T) {
	catalog := sampleCatalog()

	results := Apply(catalog, models.FilterRequest{}, nil)

	require.Len(t, results, len(catalog))
	for i, r := range results {
		assert.Equal(t, catalog[i], r.BusinessRecord)
		assert.Nil(t, r.Distance)
	}

	// resolved rỗng tương đương không có filter vị trí
	unresolved := models.Unresolved()
	assert.Equal(t, results, Apply(catalog, models.FilterRequest{}, &unresolved))
}

func TestApply_ProvinceAndSubcategory(t *testing.T) {
	results := Apply(sampleCatalog(), models.FilterRequest{SubcategoryID: "barber"}, resolvedProvince(6))

	assert.Equal(t, []string{"b2", "b6"}, ids(results))
}

func TestApply_DistrictRefinesProvince(t *testing.T) {
	resolved := &models.ResolvedLocation{
		Province: &models.Province{ID: 6},
		District: &models.District{ID: 42, ProvinceID: 6},
	}
	assert.Equal(t, []string{"b1", "b2"}, ids(Apply(sampleCatalog(), models.FilterRequest{}, resolved)))

	// district 42 nhưng province khác: province vẫn áp dụng
	mismatched := &models.ResolvedLocation{
		Province: &models.Province{ID: 34},
		District: &models.District{ID: 42, ProvinceID: 34},
	}
	assert.Empty(t, Apply(sampleCatalog(), models.FilterRequest{}, mismatched))
}

func TestApply_TextSearch(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []string
	}{
		{name: "Name without diacritics", text: "cankaya", want: []string{"b6"}},
		{name: "Uppercase", text: "BERBER", want: []string{"b2", "b4", "b6", "b8"}},
		{name: "Service name", text: "sakal tirasi", want: []string{"b2"}},
		{name: "Dotted capital I", text: "İZMİR", want: []string{"b8"}},
		{name: "Blank is inactive", text: "   ", want: ids(Apply(sampleCatalog(), models.FilterRequest{}, nil))},
		{name: "No match", text: "pizza", want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(sampleCatalog(), models.FilterRequest{SearchText: tc.text}, nil)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestApply_Category(t *testing.T) {
	got := Apply(sampleCatalog(), models.FilterRequest{Category: "saglik"}, nil)
	assert.Equal(t, []string{"b3", "b10"}, ids(got))
}

func TestApply_CompositionIsCommutativeAndIdempotent(t *testing.T) {
	catalog := sampleCatalog()
	req := models.FilterRequest{SubcategoryID: "barber", SearchText: "berber", Category: "güzellik"}
	preds := ActivePredicates(req, resolvedProvince(6))
	require.Len(t, preds, 4)

	run := func(p Predicate) []string {
		var out []string
		for i := range catalog {
			if p(&catalog[i]) {
				out = append(out, catalog[i].ID)
			}
		}
		return out
	}

	forward := run(Compose(preds...))
	reversed := make([]Predicate, len(preds))
	for i, p := range preds {
		reversed[len(preds)-1-i] = p
	}
	assert.Equal(t, forward, run(Compose(reversed...)))
	assert.Equal(t, forward, run(Compose(append(preds, preds...)...)))
	assert.Equal(t, []string{"b2", "b6"}, forward)

	// áp dụng lại lên kết quả không đổi gì
	once := Apply(catalog, req, resolvedProvince(6))
	var again []models.BusinessRecord
	for _, r := range once {
		again = append(again, r.BusinessRecord)
	}
	assert.Equal(t, ids(once), ids(Apply(again, req, resolvedProvince(6))))
}

func TestApply_DistanceAnnotationAndSentinelOrdering(t *testing.T) {
	origin := models.Coordinate{Latitude: 39.9208, Longitude: 32.8541}
	catalog := []models.BusinessRecord{
		{ID: "unknown", Name: "No coordinates"},
		{ID: "far", Name: "Far", Latitude: floatPtr(41.0082), Longitude: floatPtr(28.9784)},
		{ID: "near", Name: "Near", Latitude: floatPtr(39.9250), Longitude: floatPtr(32.8600)},
	}

	results := Apply(catalog, models.FilterRequest{Origin: &origin}, nil)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"unknown", "far", "near"}, ids(results))
	require.NotNil(t, results[0].Distance)
	assert.Equal(t, geo.UnknownDistance, *results[0].Distance)
	assert.InDelta(t, 350.0, *results[1].Distance, 10.0)
	assert.Less(t, *results[2].Distance, 1.0)

	sorted := Apply(catalog, models.FilterRequest{Origin: &origin, SortByDistance: true}, nil)
	assert.Equal(t, []string{"near", "far", "unknown"}, ids(sorted))
}

func TestApply_Radius(t *testing.T) {
	origin := models.Coordinate{Latitude: 39.9208, Longitude: 32.8541}
	catalog := []models.BusinessRecord{
		{ID: "unknown"},
		{ID: "far", Latitude: floatPtr(41.0082), Longitude: floatPtr(28.9784)},
		{ID: "near", Latitude: floatPtr(39.9250), Longitude: floatPtr(32.8600)},
	}

	got := Apply(catalog, models.FilterRequest{Origin: &origin, RadiusKm: 5}, nil)
	assert.Equal(t, []string{"near"}, ids(got))

	// không có origin thì bán kính không active
	assert.Len(t, Apply(catalog, models.FilterRequest{RadiusKm: 5}, nil), 3)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	catalog[0].Latitude = floatPtr(39.9)
	catalog[0].Longitude = floatPtr(32.8)
	snapshot := fmt.Sprintf("%+v", catalog)
	before := *catalog[0].ProvinceID

	origin := models.Coordinate{Latitude: 40, Longitude: 33}
	results := Apply(catalog, models.FilterRequest{Origin: &origin, SortByDistance: true}, resolvedProvince(6))
	require.NotEmpty(t, results)

	*results[0].ProvinceID = 999
	results[0].ServiceNames = append(results[0].ServiceNames, "extra")

	assert.Equal(t, before, *catalog[0].ProvinceID)
	assert.Equal(t, snapshot, fmt.Sprintf("%+v", catalog))
}

func TestSortByDistance_NilDistanceLast(t *testing.T) {
	results := []models.BusinessResult{
		{BusinessRecord: models.BusinessRecord{ID: "nil"}},
		{BusinessRecord: models.BusinessRecord{ID: "b"}, Distance: floatPtr(2)},
		{BusinessRecord: models.BusinessRecord{ID: "a"}, Distance: floatPtr(1)},
		{BusinessRecord: models.BusinessRecord{ID: "u"}, Distance: floatPtr(geo.UnknownDistance)},
	}
	SortByDistance(results)
	assert.Equal(t, []string{"a", "b", "nil", "u"}, ids(results))
}
