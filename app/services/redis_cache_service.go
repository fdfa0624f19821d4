package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/metrics"
)

// RedisGeocodeCache L2 geocode cache dùng Redis, chia sẻ giữa các instance
type RedisGeocodeCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisClient parse URL và ping thử
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}
	return client, nil
}

// NewRedisGeocodeCache tạo mới Redis geocode cache
func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGeocodeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisGeocodeCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Get lấy kết quả từ Redis
func (r *RedisGeocodeCache) Get(ctx context.Context, key string) (*models.GeocodeResult, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}

	var result models.GeocodeResult
	if err := json.Unmarshal(val, &result); err != nil {
		r.logger.Error("Lỗi unmarshal cache data", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}

	r.hits.Add(1)
	metrics.GeocodeCacheHitsTotal.WithLabelValues("redis").Inc()
	return &result, true, nil
}

// Set lưu kết quả vào Redis với TTL
func (r *RedisGeocodeCache) Set(ctx context.Context, key string, result models.GeocodeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

// Clear xóa mọi key revgeo:*; dùng SCAN để không block Redis
func (r *RedisGeocodeCache) Clear(ctx context.Context) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, geocodeKeyPrefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("lỗi scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("lỗi xóa keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("Đã clear Redis geocode cache", zap.Int("keys_deleted", deleted))
	return nil
}

// GetStats lấy thống kê cache; TotalItems đếm bằng SCAN
func (r *RedisGeocodeCache) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := r.hits.Load(), r.misses.Load()

	var items int64
	iter := r.client.Scan(ctx, 0, geocodeKeyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		items++
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("Không thể đếm key Redis", zap.Error(err))
	}

	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: items,
	}, nil
}

// Close đóng kết nối Redis
func (r *RedisGeocodeCache) Close() error {
	return r.client.Close()
}
