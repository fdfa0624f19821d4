// Package filter áp dụng tập filter (địa giới, danh mục, text, bán kính)
// lên catalog doanh nghiệp và annotate khoảng cách.
package filter

import (
	"sort"
	"strings"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/geo"
	"github.com/catalog-locator/internal/normalizer"
)

// Predicate điều kiện giữ lại một record. Không được sửa record.
type Predicate func(b *models.BusinessRecord) bool

// Compose AND tất cả predicate; không có predicate nào thì luôn true
func Compose(preds ...Predicate) Predicate {
	return func(b *models.BusinessRecord) bool {
		for _, p := range preds {
			if !p(b) {
				return false
			}
		}
		return true
	}
}

// ActivePredicates các predicate đang active cho request.
// Filter vắng mặt không đóng góp điều kiện nào.
func ActivePredicates(req models.FilterRequest, resolved *models.ResolvedLocation) []Predicate {
	var preds []Predicate

	if resolved != nil && resolved.Province != nil {
		preds = append(preds, ByProvince(resolved.Province.ID))
	}
	// district luôn là refinement, province vẫn áp dụng
	if resolved != nil && resolved.District != nil {
		preds = append(preds, ByDistrict(resolved.District.ID))
	}
	if q := normalizer.Normalize(req.Category); q != "" {
		preds = append(preds, ByCategory(q))
	}
	if req.SubcategoryID != "" {
		preds = append(preds, BySubcategory(req.SubcategoryID))
	}
	if q := normalizer.Normalize(strings.TrimSpace(req.SearchText)); q != "" {
		preds = append(preds, ByText(q))
	}
	if req.Origin != nil && req.RadiusKm > 0 {
		preds = append(preds, WithinRadius(*req.Origin, req.RadiusKm))
	}
	return preds
}

// ByProvince giữ record có provinceId bằng id
func ByProvince(id int) Predicate {
	return func(b *models.BusinessRecord) bool {
		return b.ProvinceID != nil && *b.ProvinceID == id
	}
}

// ByDistrict giữ record có districtId bằng id
func ByDistrict(id int) Predicate {
	return func(b *models.BusinessRecord) bool {
		return b.DistrictID != nil && *b.DistrictID == id
	}
}

// ByCategory so khớp danh mục sau normalize; normalized phải đã được normalize
func ByCategory(normalized string) Predicate {
	return func(b *models.BusinessRecord) bool {
		return normalizer.Normalize(b.Category) == normalized
	}
}

// BySubcategory so khớp chính xác subcategoryId
func BySubcategory(id string) Predicate {
	return func(b *models.BusinessRecord) bool {
		return b.SubcategoryID == id
	}
}

// ByText tìm chuỗi con (đã normalize) trong tên hoặc tên dịch vụ
func ByText(normalized string) Predicate {
	return func(b *models.BusinessRecord) bool {
		if strings.Contains(normalizer.Normalize(b.Name), normalized) {
			return true
		}
		for _, service := range b.ServiceNames {
			if strings.Contains(normalizer.Normalize(service), normalized) {
				return true
			}
		}
		return false
	}
}

// WithinRadius giữ record có khoảng cách biết được và <= radiusKm
func WithinRadius(origin models.Coordinate, radiusKm float64) Predicate {
	return func(b *models.BusinessRecord) bool {
		d := distanceFrom(origin, b)
		return geo.IsKnown(d) && d <= radiusKm
	}
}

// Apply lọc businesses theo req/resolved, trả về bản sao đã annotate.
// Input không bị thay đổi; thứ tự catalog được giữ nguyên trừ khi SortByDistance.
func Apply(businesses []models.BusinessRecord, req models.FilterRequest, resolved *models.ResolvedLocation) []models.BusinessResult {
	keep := Compose(ActivePredicates(req, resolved)...)

	out := make([]models.BusinessResult, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		if !keep(b) {
			continue
		}
		res := models.BusinessResult{BusinessRecord: b.Clone()}
		if req.Origin != nil {
			d := distanceFrom(*req.Origin, b)
			res.Distance = &d
		}
		out = append(out, res)
	}

	if req.Origin != nil && req.SortByDistance {
		SortByDistance(out)
	}
	return out
}

// SortByDistance sắp xếp tăng dần (stable); khoảng cách unknown/nil xếp cuối
func SortByDistance(results []models.BusinessResult) {
	sort.SliceStable(results, func(i, j int) bool {
		di, dj := distanceKey(results[i]), distanceKey(results[j])
		ki, kj := geo.IsKnown(di), geo.IsKnown(dj)
		if ki != kj {
			return ki
		}
		if !ki {
			return false
		}
		return di < dj
	})
}

func distanceFrom(origin models.Coordinate, b *models.BusinessRecord) float64 {
	c, ok := b.Coordinate()
	if !ok {
		return geo.UnknownDistance
	}
	return geo.Distance(origin, c)
}

func distanceKey(r models.BusinessResult) float64 {
	if r.Distance == nil {
		return geo.UnknownDistance
	}
	return *r.Distance
}
