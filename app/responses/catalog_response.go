package responses

import (
	"github.com/catalog-locator/app/models"
)

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error   string `json:"error"`   // Mã lỗi
	Message string `json:"message"` // Thông báo
}

// BusinessItem doanh nghiệp kèm khoảng cách dạng text
type BusinessItem struct {
	models.BusinessResult
	DistanceText string `json:"distance_text,omitempty"` // "850 m", "12.4 km"
}

// LocationInfo vị trí đã dùng để lọc
type LocationInfo struct {
	Resolved      bool             `json:"resolved"`
	Source        string           `json:"source"` // explicit | geocoded | none
	Province      *models.Province `json:"province,omitempty"`
	District      *models.District `json:"district,omitempty"`
	ProvinceMatch models.MatchTier `json:"province_match"`
	DistrictMatch models.MatchTier `json:"district_match"`
	GeocodeFailed bool             `json:"geocode_failed"`
}

// SearchBusinessesResponse response tìm doanh nghiệp
type SearchBusinessesResponse struct {
	Results          []BusinessItem `json:"results"`            // Trang kết quả
	Total            int            `json:"total"`              // Tổng số kết quả trước phân trang
	Location         LocationInfo   `json:"location"`           // Vị trí đã áp dụng
	ProcessingTimeMs int64          `json:"processing_time_ms"` // Thời gian xử lý (ms)
}

// ResolveLocationResponse response resolve vị trí
type ResolveLocationResponse struct {
	Location         LocationInfo          `json:"location"`
	Geocode          *models.GeocodeResult `json:"geocode,omitempty"` // Tên thô đã dùng để match
	ProcessingTimeMs int64                 `json:"processing_time_ms"`
}

// ProvincesResponse danh sách tỉnh
type ProvincesResponse struct {
	Provinces []models.Province `json:"provinces"`
	Total     int               `json:"total"`
}

// DistrictsResponse danh sách huyện của một tỉnh
type DistrictsResponse struct {
	ProvinceID int               `json:"province_id"`
	Districts  []models.District `json:"districts"`
	Total      int               `json:"total"`
}

// SeedLocationsResponse response seed dataset
type SeedLocationsResponse struct {
	ValidationPassed bool     `json:"validation_passed"`
	Errors           []string `json:"errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	Provinces        int      `json:"provinces"`
	Districts        int      `json:"districts"`
	DocumentsWritten int64    `json:"documents_written,omitempty"`
	CacheInvalidated bool     `json:"cache_invalidated"`
	ProcessingTimeMs int64    `json:"processing_time_ms,omitempty"`
	DryRun           bool     `json:"dry_run"`
	Message          string   `json:"message"`
}

// HealthResponse response health check
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp int64  `json:"timestamp"`
}

// SuccessResponse response thành công chung
type SuccessResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
