package requests

import "github.com/catalog-locator/app/models"

// SearchBusinessesRequest request tìm doanh nghiệp; mọi field đều optional
type SearchBusinessesRequest struct {
	ProvinceID     *int               `json:"province_id,omitempty"`                             // Tỉnh người dùng chọn
	DistrictID     *int               `json:"district_id,omitempty"`                             // Huyện người dùng chọn
	Category       string             `json:"category,omitempty"`                                // Danh mục
	SubcategoryID  string             `json:"subcategory_id,omitempty"`                          // Danh mục con
	SearchText     string             `json:"search_text,omitempty"`                             // Text tìm trong tên / dịch vụ
	Origin         *models.Coordinate `json:"origin,omitempty"`                                  // Vị trí thiết bị
	SortByDistance bool               `json:"sort_by_distance,omitempty"`                        // Sắp xếp theo khoảng cách
	RadiusKm       float64            `json:"radius_km,omitempty" binding:"omitempty,gte=0"`     // Bán kính (km)
	Limit          int                `json:"limit,omitempty" binding:"omitempty,gte=1,lte=500"` // Số kết quả tối đa
	Offset         int                `json:"offset,omitempty" binding:"omitempty,gte=0"`        // Bỏ qua n kết quả đầu
}

// ToFilter chuyển sang FilterRequest của core
func (r SearchBusinessesRequest) ToFilter() models.FilterRequest {
	return models.FilterRequest{
		ProvinceID:     r.ProvinceID,
		DistrictID:     r.DistrictID,
		Category:       r.Category,
		SubcategoryID:  r.SubcategoryID,
		SearchText:     r.SearchText,
		Origin:         r.Origin,
		SortByDistance: r.SortByDistance,
		RadiusKm:       r.RadiusKm,
	}
}

// ResolveLocationRequest resolve theo tọa độ hoặc theo tên
type ResolveLocationRequest struct {
	Origin       *models.Coordinate `json:"origin,omitempty"`        // Tọa độ cần reverse geocode
	CityName     string             `json:"city_name,omitempty"`     // Tên tỉnh dạng text
	DistrictName string             `json:"district_name,omitempty"` // Tên huyện dạng text
}

// SeedLocationsRequest request seed dataset địa giới
type SeedLocationsRequest struct {
	Provinces []models.Province `json:"provinces" binding:"required"` // Danh sách tỉnh
	Districts []models.District `json:"districts"`                    // Danh sách huyện
}
