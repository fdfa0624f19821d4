package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/geocoder"
)

// GeocodeService reverse geocoder có cache. Chỉ kết quả thành công được cache.
type GeocodeService struct {
	provider  geocoder.ReverseGeocoder
	cache     GeocodeCache
	precision int
	logger    *zap.Logger
}

// NewGeocodeService tạo mới GeocodeService; cache có thể nil
func NewGeocodeService(provider geocoder.ReverseGeocoder, cache GeocodeCache, precision int, logger *zap.Logger) *GeocodeService {
	return &GeocodeService{
		provider:  provider,
		cache:     cache,
		precision: precision,
		logger:    logger,
	}
}

// ReverseGeocode tra cache rồi mới gọi provider
func (gs *GeocodeService) ReverseGeocode(ctx context.Context, c models.Coordinate) (models.GeocodeResult, error) {
	key := GeocodeCacheKey(c, gs.precision)

	if gs.cache != nil {
		if cached, found, err := gs.cache.Get(ctx, key); err == nil && found {
			gs.logger.Debug("Geocode cache hit", zap.String("key", key))
			return *cached, nil
		}
	}

	result, err := gs.provider.ReverseGeocode(ctx, c)
	if err != nil {
		return models.GeocodeResult{}, err
	}

	if gs.cache != nil && !result.IsEmpty() {
		if err := gs.cache.Set(ctx, key, result); err != nil {
			gs.logger.Warn("Không thể lưu geocode cache", zap.Error(err), zap.String("key", key))
		}
	}
	return result, nil
}

// Invalidate xóa toàn bộ geocode cache
func (gs *GeocodeService) Invalidate(ctx context.Context) error {
	if gs.cache == nil {
		return nil
	}
	return gs.cache.Clear(ctx)
}

// CacheStats thống kê cache; nil khi không có cache
func (gs *GeocodeService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if gs.cache == nil {
		return nil, nil
	}
	return gs.cache.GetStats(ctx)
}

// Close đóng cache (kết nối Redis nếu có)
func (gs *GeocodeService) Close() error {
	if gs.cache == nil {
		return nil
	}
	return gs.cache.Close()
}
