package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/metrics"
)

// HybridGeocodeCache kết hợp memory (L1) + Redis (L2). L2 có thể nil.
type HybridGeocodeCache struct {
	memory *MemoryGeocodeCache // L1 - nhanh, theo instance
	remote GeocodeCache        // L2 - chia sẻ, optional
	logger *zap.Logger
}

// NewHybridGeocodeCache tạo mới hybrid cache
func NewHybridGeocodeCache(memory *MemoryGeocodeCache, remote GeocodeCache, logger *zap.Logger) *HybridGeocodeCache {
	return &HybridGeocodeCache{
		memory: memory,
		remote: remote,
		logger: logger,
	}
}

// Get thử L1 trước, sau đó L2; hit ở L2 được đẩy lên L1
func (h *HybridGeocodeCache) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	if result, found, _ := h.memory.Get(ctx, key); found {
		return result, true, nil
	}

	if h.remote == nil {
		metrics.GeocodeCacheMissesTotal.Inc()
		return nil, false, nil
	}

	result, found, err := h.remote.Get(ctx, key)
	if err != nil {
		// lỗi L2 coi như miss, không làm hỏng request
		h.logger.Warn("Lỗi L2 geocode cache", zap.Error(err), zap.String("key", key))
		metrics.GeocodeCacheMissesTotal.Inc()
		return nil, false, nil
	}
	if !found {
		metrics.GeocodeCacheMissesTotal.Inc()
		return nil, false, nil
	}

	_ = h.memory.Set(ctx, key, *result)
	return result, true, nil
}

// Set lưu vào cả L1 và L2
func (h *HybridGeocodeCache) Set(ctx context.Context, key string, result models.GeocodeResult) error {
	_ = h.memory.Set(ctx, key, result)
	if h.remote == nil {
		return nil
	}
	if err := h.remote.Set(ctx, key, result); err != nil {
		h.logger.Warn("Lỗi lưu vào L2 geocode cache", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

// Clear xóa cả 2 tầng
func (h *HybridGeocodeCache) Clear(ctx context.Context) error {
	_ = h.memory.Clear(ctx)
	if h.remote != nil {
		if err := h.remote.Clear(ctx); err != nil {
			return fmt.Errorf("clear L2: %w", err)
		}
	}
	h.logger.Info("Cleared hybrid geocode cache")
	return nil
}

// GetStats cộng dồn thống kê hai tầng
func (h *HybridGeocodeCache) GetStats(ctx context.Context) (*CacheStats, error) {
	combined, _ := h.memory.GetStats(ctx)
	if h.remote == nil {
		return combined, nil
	}

	remoteStats, err := h.remote.GetStats(ctx)
	if err != nil {
		h.logger.Warn("Không lấy được stats L2", zap.Error(err))
		return combined, nil
	}

	combined.TotalHits += remoteStats.TotalHits
	// miss ở L1 mà hit ở L2 không tính là miss
	combined.TotalMiss = remoteStats.TotalMiss
	combined.TotalItems += remoteStats.TotalItems
	combined.HitRate = hitRate(combined.TotalHits, combined.TotalMiss)
	return combined, nil
}

// Close đóng L2
func (h *HybridGeocodeCache) Close() error {
	if h.remote == nil {
		return nil
	}
	return h.remote.Close()
}
