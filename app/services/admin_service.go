package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/normalizer"
)

// ErrInvalidDataset dataset không qua được validate
var ErrInvalidDataset = errors.New("invalid location dataset")

// LocationStore nơi ghi dataset khi seed
type LocationStore interface {
	Upsert(ctx context.Context, ds *models.LocationDataset) (int64, error)
}

// BusinessCounter đếm catalog cho stats
type BusinessCounter interface {
	Count(ctx context.Context) (int64, error)
}

// AdminService service quản lý admin functions
type AdminService struct {
	store      LocationStore
	locations  *LocationService
	geocode    *GeocodeService
	businesses BusinessCounter
	startedAt  time.Time
	logger     *zap.Logger
}

// DatasetValidation kết quả validate dataset. Errors chặn seed, Warnings thì không.
type DatasetValidation struct {
	Passed    bool     `json:"passed"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Provinces int      `json:"provinces"`
	Districts int      `json:"districts"`
}

// SeedResult kết quả seed dataset
type SeedResult struct {
	Validation       *DatasetValidation `json:"validation"`
	DryRun           bool               `json:"dry_run"`
	DocumentsWritten int64              `json:"documents_written"`
	CacheInvalidated bool               `json:"cache_invalidated"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// SystemStats thống kê hệ thống
type SystemStats struct {
	Uptime       string                 `json:"uptime"`
	MemoryUsage  map[string]interface{} `json:"memory_usage"`
	Locations    LocationStats          `json:"locations"`
	GeocodeCache *CacheStats            `json:"geocode_cache,omitempty"`
	Businesses   int64                  `json:"businesses"`
}

// NewAdminService tạo mới AdminService. store/geocode/businesses có thể nil.
func NewAdminService(store LocationStore, locations *LocationService, geocode *GeocodeService, businesses BusinessCounter, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:      store,
		locations:  locations,
		geocode:    geocode,
		businesses: businesses,
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// ValidateLocationDataset kiểm tra id, tên, tọa độ và quan hệ huyện -> tỉnh
func ValidateLocationDataset(ds *models.LocationDataset) *DatasetValidation {
	v := &DatasetValidation{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}
	if ds == nil || len(ds.Provinces) == 0 {
		v.Errors = append(v.Errors, "Không có tỉnh nào trong dataset")
		return v
	}
	v.Provinces = len(ds.Provinces)
	v.Districts = len(ds.Districts)

	provinceIDs := make(map[int]bool, len(ds.Provinces))
	provinceNames := make(map[string]int)
	for i, p := range ds.Provinces {
		if p.ID <= 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("Province ID không hợp lệ (%d) tại index %d", p.ID, i))
		}
		if provinceIDs[p.ID] {
			v.Errors = append(v.Errors, fmt.Sprintf("Duplicate province ID: %d", p.ID))
		}
		provinceIDs[p.ID] = true

		name := normalizer.Normalize(p.Name)
		if name == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("Missing province name tại index %d", i))
		} else if other, ok := provinceNames[name]; ok {
			v.Warnings = append(v.Warnings, fmt.Sprintf("Province %d và %d trùng tên sau normalize: %q", other, p.ID, name))
		} else {
			provinceNames[name] = p.ID
		}
		if err := p.Coordinate().Validate(); err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("Province %d: %v", p.ID, err))
		}
	}

	districtIDs := make(map[int]bool, len(ds.Districts))
	districtNames := make(map[string]int)
	for i, d := range ds.Districts {
		if districtIDs[d.ID] {
			v.Errors = append(v.Errors, fmt.Sprintf("Duplicate district ID: %d", d.ID))
		}
		districtIDs[d.ID] = true

		if !provinceIDs[d.ProvinceID] {
			v.Errors = append(v.Errors, fmt.Sprintf("District %d thuộc province không tồn tại: %d", d.ID, d.ProvinceID))
		}
		name := normalizer.Normalize(d.Name)
		if name == "" {
			v.Errors = append(v.Errors, fmt.Sprintf("Missing district name tại index %d", i))
			continue
		}
		// trùng tên trong cùng tỉnh làm tie-break phụ thuộc thứ tự dataset
		key := fmt.Sprintf("%d/%s", d.ProvinceID, name)
		if other, ok := districtNames[key]; ok {
			v.Warnings = append(v.Warnings, fmt.Sprintf("District %d và %d trùng tên trong province %d: %q", other, d.ID, d.ProvinceID, name))
		} else {
			districtNames[key] = d.ID
		}
		coord := models.Coordinate{Latitude: d.Latitude, Longitude: d.Longitude}
		if err := coord.Validate(); err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("District %d: %v", d.ID, err))
		}
	}

	v.Passed = len(v.Errors) == 0
	return v
}

// SeedLocations validate, upsert, reload snapshot, xóa geocode cache
func (as *AdminService) SeedLocations(ctx context.Context, ds *models.LocationDataset, dryRun bool) (*SeedResult, error) {
	startTime := time.Now()

	validation := ValidateLocationDataset(ds)
	result := &SeedResult{Validation: validation, DryRun: dryRun}
	if !validation.Passed {
		return result, fmt.Errorf("%w: %d lỗi", ErrInvalidDataset, len(validation.Errors))
	}
	if dryRun {
		result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
		return result, nil
	}
	if as.store == nil {
		return result, errors.New("location store not configured")
	}

	written, err := as.store.Upsert(ctx, ds)
	if err != nil {
		return result, fmt.Errorf("lỗi ghi dataset: %w", err)
	}
	result.DocumentsWritten = written

	if err := as.locations.Reload(ctx); err != nil {
		return result, err
	}

	// tên đã đổi nên kết quả geocode cũ có thể resolve khác
	if as.geocode != nil {
		if err := as.geocode.Invalidate(ctx); err != nil {
			as.logger.Warn("Không thể invalidate geocode cache", zap.Error(err))
		} else {
			result.CacheInvalidated = true
		}
	}

	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	as.logger.Info("Location seed completed",
		zap.Int("provinces", validation.Provinces),
		zap.Int("districts", validation.Districts),
		zap.Int64("documents_written", written),
		zap.Duration("processing_time", time.Since(startTime)))
	return result, nil
}

// ReloadLocations đọc lại dataset từ source
func (as *AdminService) ReloadLocations(ctx context.Context) (LocationStats, error) {
	if err := as.locations.Reload(ctx); err != nil {
		return LocationStats{}, err
	}
	return as.locations.Stats(), nil
}

// InvalidateGeocodeCache xóa geocode cache
func (as *AdminService) InvalidateGeocodeCache(ctx context.Context) error {
	if as.geocode == nil {
		return nil
	}
	return as.geocode.Invalidate(ctx)
}

// GetSystemStats lấy thống kê hệ thống
func (as *AdminService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		Uptime: time.Since(as.startedAt).Round(time.Second).String(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
		Locations: as.locations.Stats(),
	}

	if as.geocode != nil {
		cacheStats, err := as.geocode.CacheStats(ctx)
		if err != nil {
			as.logger.Warn("Không lấy được geocode cache stats", zap.Error(err))
		}
		stats.GeocodeCache = cacheStats
	}

	if as.businesses != nil {
		count, err := as.businesses.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("lỗi đếm businesses: %w", err)
		}
		stats.Businesses = count
	}
	return stats, nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
