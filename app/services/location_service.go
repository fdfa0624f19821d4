package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
)

// ErrDatasetNotLoaded chưa load dataset lần nào
var ErrDatasetNotLoaded = errors.New("location dataset not loaded")

// locationSnapshot bất biến sau khi tạo, đọc đồng thời không cần lock
type locationSnapshot struct {
	provinces      []models.Province
	districtsOf    map[int][]models.District
	provinceByID   map[int]int
	districtsTotal int
	loadedAt       time.Time
}

// LocationStats thống kê snapshot hiện tại
type LocationStats struct {
	Provinces int       `json:"provinces"`
	Districts int       `json:"districts"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// LocationService giữ snapshot dataset địa giới; Reload thay snapshot nguyên khối
type LocationService struct {
	source   LocationSource
	snapshot atomic.Pointer[locationSnapshot]
	logger   *zap.Logger
}

// NewLocationService tạo mới LocationService; cần gọi Reload trước khi dùng
func NewLocationService(source LocationSource, logger *zap.Logger) *LocationService {
	return &LocationService{source: source, logger: logger}
}

// Reload đọc lại dataset từ source và thay snapshot
func (ls *LocationService) Reload(ctx context.Context) error {
	ds, err := ls.source.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("lỗi load location dataset: %w", err)
	}
	snap := buildSnapshot(ds)
	ls.snapshot.Store(snap)

	ls.logger.Info("Location dataset loaded",
		zap.Int("provinces", len(snap.provinces)),
		zap.Int("districts", snap.districtsTotal))
	return nil
}

func buildSnapshot(ds *models.LocationDataset) *locationSnapshot {
	snap := &locationSnapshot{
		provinces:    append([]models.Province(nil), ds.Provinces...),
		districtsOf:  make(map[int][]models.District, len(ds.Provinces)),
		provinceByID: make(map[int]int, len(ds.Provinces)),
		loadedAt:     time.Now(),
	}
	for i, p := range snap.provinces {
		snap.provinceByID[p.ID] = i
	}
	for _, d := range ds.Districts {
		if _, ok := snap.provinceByID[d.ProvinceID]; !ok {
			continue
		}
		snap.districtsOf[d.ProvinceID] = append(snap.districtsOf[d.ProvinceID], d)
		snap.districtsTotal++
	}
	return snap
}

func (ls *LocationService) current() *locationSnapshot {
	if snap := ls.snapshot.Load(); snap != nil {
		return snap
	}
	return &locationSnapshot{}
}

// Loaded đã có snapshot hay chưa
func (ls *LocationService) Loaded() bool {
	return ls.snapshot.Load() != nil
}

// Provinces bản sao danh sách tỉnh theo thứ tự dataset
func (ls *LocationService) Provinces() []models.Province {
	return append([]models.Province(nil), ls.current().provinces...)
}

// DistrictsOf bản sao danh sách huyện của tỉnh; dùng làm resolver.DistrictLookup
func (ls *LocationService) DistrictsOf(provinceID int) []models.District {
	return append([]models.District(nil), ls.current().districtsOf[provinceID]...)
}

// Province tìm tỉnh theo id
func (ls *LocationService) Province(id int) (models.Province, bool) {
	snap := ls.current()
	i, ok := snap.provinceByID[id]
	if !ok {
		return models.Province{}, false
	}
	return snap.provinces[i], true
}

// Stats thống kê snapshot
func (ls *LocationService) Stats() LocationStats {
	snap := ls.current()
	return LocationStats{
		Provinces: len(snap.provinces),
		Districts: snap.districtsTotal,
		LoadedAt:  snap.loadedAt,
	}
}
