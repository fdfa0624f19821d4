// Package resolver map tên địa danh thô từ reverse geocoder về Province/District
// chuẩn theo chiến lược matching nhiều tầng.
package resolver

import (
	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/normalizer"
)

// DistrictLookup trả về danh sách huyện của một tỉnh
type DistrictLookup func(provinceID int) []models.District

// Options cấu hình resolver
type Options struct {
	// GenericDistrictNames tên huyện chung chung (vd "merkez"): không tham gia
	// containment, chỉ match khi bằng nhau. Danh sách rỗng tắt guard, containment
	// khi đó áp dụng cho mọi tên theo cả hai chiều.
	GenericDistrictNames []string
	// JWBoostThreshold, JWPrefixSize tham số Jaro-Winkler cho tie-break
	JWBoostThreshold float64
	JWPrefixSize     int
}

// DefaultOptions cấu hình mặc định theo locale nhúng
func DefaultOptions() Options {
	return Options{
		GenericDistrictNames: normalizer.GenericDistrictNames(),
		JWBoostThreshold:     0.7,
		JWPrefixSize:         4,
	}
}

// LocationResolver resolver stateless, dùng đồng thời được
type LocationResolver struct {
	generic  map[string]struct{}
	jwBoost  float64
	jwPrefix int
}

// NewLocationResolver tạo mới LocationResolver
func NewLocationResolver(opts Options) *LocationResolver {
	generic := make(map[string]struct{}, len(opts.GenericDistrictNames))
	for _, name := range opts.GenericDistrictNames {
		if n := normalizer.Normalize(name); n != "" {
			generic[n] = struct{}{}
		}
	}
	if opts.JWBoostThreshold <= 0 {
		opts.JWBoostThreshold = 0.7
	}
	if opts.JWPrefixSize <= 0 {
		opts.JWPrefixSize = 4
	}
	return &LocationResolver{
		generic:  generic,
		jwBoost:  opts.JWBoostThreshold,
		jwPrefix: opts.JWPrefixSize,
	}
}

// Resolve resolve tên thành phố/huyện của geocoder.
// Không match tỉnh -> {nil, nil}; match tỉnh nhưng không match huyện -> {province, nil}.
func (r *LocationResolver) Resolve(geocode models.GeocodeResult, provinces []models.Province, districtsOf DistrictLookup) models.ResolvedLocation {
	out := models.Unresolved()

	idx, tier := r.matchProvince(geocode.CityName, provinces)
	if idx < 0 {
		return out
	}
	province := provinces[idx]
	out.Province = &province
	out.ProvinceMatch = tier

	if districtsOf == nil {
		return out
	}

	// chỉ giữ huyện thực sự thuộc tỉnh đã resolve
	var districts []models.District
	for _, d := range districtsOf(province.ID) {
		if d.ProvinceID == province.ID {
			districts = append(districts, d)
		}
	}

	didx, dtier := r.matchDistrict(geocode.DistrictName, districts)
	if didx < 0 {
		return out
	}
	district := districts[didx]
	out.District = &district
	out.DistrictMatch = dtier
	return out
}

// matchProvince tầng 1 exact, tầng 2 containment
func (r *LocationResolver) matchProvince(cityName string, provinces []models.Province) (int, models.MatchTier) {
	query := normalizer.Normalize(cityName)
	if query == "" || len(provinces) == 0 {
		return -1, models.MatchTierNone
	}

	names := make([]string, len(provinces))
	for i, p := range provinces {
		names[i] = normalizer.Normalize(p.Name)
	}

	if idx := r.pick(query, names, exactMatch); idx >= 0 {
		return idx, models.MatchTierExact
	}
	if idx := r.pick(query, names, normalizer.RelatedNormalized); idx >= 0 {
		return idx, models.MatchTierContainment
	}
	return -1, models.MatchTierNone
}

// matchDistrict tầng 1 exact, tầng 2 containment, tầng 3 transliterate (safety net)
func (r *LocationResolver) matchDistrict(districtName string, districts []models.District) (int, models.MatchTier) {
	query := normalizer.Normalize(districtName)
	if query == "" || len(districts) == 0 {
		return -1, models.MatchTierNone
	}

	names := make([]string, len(districts))
	for i, d := range districts {
		names[i] = normalizer.Normalize(d.Name)
	}

	if idx := r.pick(query, names, exactMatch); idx >= 0 {
		return idx, models.MatchTierExact
	}
	if idx := r.pick(query, names, r.containsNonGeneric); idx >= 0 {
		return idx, models.MatchTierContainment
	}

	tquery := normalizer.Transliterate(districtName)
	if tquery == "" {
		return -1, models.MatchTierNone
	}
	tnames := make([]string, len(districts))
	for i, d := range districts {
		tnames[i] = normalizer.Transliterate(d.Name)
	}
	translitMatch := func(name, q string) bool {
		return exactMatch(name, q) || r.containsNonGeneric(name, q)
	}
	if idx := r.pick(tquery, tnames, translitMatch); idx >= 0 {
		return idx, models.MatchTierTransliterated
	}
	return -1, models.MatchTierNone
}

// containsNonGeneric containment hai chiều, bỏ qua khi một bên là tên chung chung
func (r *LocationResolver) containsNonGeneric(name, query string) bool {
	if r.isGeneric(name) || r.isGeneric(query) {
		return false
	}
	return normalizer.RelatedNormalized(name, query)
}

func (r *LocationResolver) isGeneric(normalized string) bool {
	_, ok := r.generic[normalized]
	return ok
}

func exactMatch(name, query string) bool {
	return name != "" && name == query
}
