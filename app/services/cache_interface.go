package services

import (
	"context"
	"fmt"
	"math"

	"github.com/catalog-locator/app/models"
)

const geocodeKeyPrefix = "revgeo:"

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// GeocodeCache cache kết quả reverse geocode theo tọa độ đã làm tròn
type GeocodeCache interface {
	// Get lấy kết quả; found=false khi miss
	Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error)

	// Set lưu kết quả thành công
	Set(ctx context.Context, key string, result models.GeocodeResult) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

// GeocodeCacheKey key dạng revgeo:<lat>:<lng>, làm tròn precision chữ số thập phân
// (3 chữ số ~ 110m, đủ cho cấp huyện).
func GeocodeCacheKey(c models.Coordinate, precision int) string {
	if precision <= 0 {
		precision = 3
	}
	return fmt.Sprintf("%s%.*f:%.*f", geocodeKeyPrefix,
		precision, roundTo(c.Latitude, precision),
		precision, roundTo(c.Longitude, precision))
}

func roundTo(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	r := math.Round(v*p) / p
	// tránh "-0.000"
	if r == 0 {
		return 0
	}
	return r
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
