package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/metrics"
)

// MemoryGeocodeCache L1 in-memory: LRU có TTL
type MemoryGeocodeCache struct {
	lru    *expirable.LRU[string, models.GeocodeResult]
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryGeocodeCache tạo mới MemoryGeocodeCache
func NewMemoryGeocodeCache(size int, ttl time.Duration, logger *zap.Logger) *MemoryGeocodeCache {
	if size <= 0 {
		size = 10000
	}
	return &MemoryGeocodeCache{
		lru:    expirable.NewLRU[string, models.GeocodeResult](size, nil, ttl),
		logger: logger,
	}
}

// Get lấy kết quả từ LRU
func (m *MemoryGeocodeCache) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	result, found := m.lru.Get(key)
	if !found {
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	metrics.GeocodeCacheHitsTotal.WithLabelValues("memory").Inc()
	return &result, true, nil
}

// Set lưu vào LRU
func (m *MemoryGeocodeCache) Set(ctx context.Context, key string, result models.GeocodeResult) error {
	m.lru.Add(key, result)
	return nil
}

// Clear xóa toàn bộ LRU
func (m *MemoryGeocodeCache) Clear(ctx context.Context) error {
	m.lru.Purge()
	m.logger.Info("Đã clear memory geocode cache")
	return nil
}

// GetStats lấy thống kê cache
func (m *MemoryGeocodeCache) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := m.hits.Load(), m.misses.Load()
	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(m.lru.Len()),
	}, nil
}

func (m *MemoryGeocodeCache) Close() error { return nil }
