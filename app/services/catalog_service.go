package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/internal/filter"
	"github.com/catalog-locator/internal/geocoder"
	"github.com/catalog-locator/internal/metrics"
	"github.com/catalog-locator/internal/resolver"
)

// LocationSourceKind vị trí dùng để lọc đến từ đâu
type LocationSourceKind string

const (
	LocationSourceExplicit LocationSourceKind = "explicit"
	LocationSourceGeocoded LocationSourceKind = "geocoded"
	LocationSourceNone     LocationSourceKind = "none"
)

const defaultGeocodeTimeout = 1500 * time.Millisecond

// CatalogResult kết quả một lần truy vấn catalog
type CatalogResult struct {
	Businesses     []models.BusinessResult
	Location       models.ResolvedLocation
	LocationSource LocationSourceKind
	// GeocodeFailed geocoder lỗi/timeout, kết quả không lọc theo vị trí
	GeocodeFailed bool
}

// ResolveOutcome kết quả resolve vị trí đứng riêng (không lọc catalog)
type ResolveOutcome struct {
	Location       models.ResolvedLocation
	Geocode        models.GeocodeResult
	LocationSource LocationSourceKind
	GeocodeFailed  bool
}

// CatalogService điều phối: vị trí (chọn tay hoặc geocode) -> resolve -> filter
type CatalogService struct {
	resolver  *resolver.LocationResolver
	geocoder  geocoder.ReverseGeocoder
	repo      BusinessRepository
	locations *LocationService
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCatalogService tạo mới CatalogService. geocoder nil -> không geocode.
// repo/locations chỉ cần cho Search và ResolveLocation.
func NewCatalogService(res *resolver.LocationResolver, gc geocoder.ReverseGeocoder, repo BusinessRepository, locations *LocationService, geocodeTimeout time.Duration, logger *zap.Logger) *CatalogService {
	if geocodeTimeout <= 0 {
		geocodeTimeout = defaultGeocodeTimeout
	}
	return &CatalogService{
		resolver:  res,
		geocoder:  gc,
		repo:      repo,
		locations: locations,
		timeout:   geocodeTimeout,
		logger:    logger,
	}
}

// Execute chạy một truy vấn trên catalog đã lấy sẵn.
// Tọa độ origin sai -> lỗi ErrInvalidCoordinate. Geocoder lỗi không bao giờ trả về
// lỗi mà chuyển thành vị trí rỗng với GeocodeFailed=true.
func (cs *CatalogService) Execute(ctx context.Context, businesses []models.BusinessRecord, req models.FilterRequest, provinces []models.Province, districtsOf resolver.DistrictLookup) (*CatalogResult, error) {
	result, err := cs.locate(ctx, req, provinces, districtsOf)
	if err != nil {
		return nil, err
	}
	cs.applyFilters(result, businesses, req)
	return result, nil
}

// locate xác định vị trí lọc: vùng chọn tay, hoặc một lần geocode origin
func (cs *CatalogService) locate(ctx context.Context, req models.FilterRequest, provinces []models.Province, districtsOf resolver.DistrictLookup) (*CatalogResult, error) {
	if req.Origin != nil {
		if err := req.Origin.Validate(); err != nil {
			return nil, err
		}
	}
	if districtsOf == nil {
		districtsOf = func(int) []models.District { return nil }
	}

	result := &CatalogResult{
		Location:       models.Unresolved(),
		LocationSource: LocationSourceNone,
	}

	switch {
	case req.HasExplicitRegion():
		loc, err := explicitLocation(req, provinces, districtsOf)
		if err != nil {
			return nil, err
		}
		result.Location = loc
		result.LocationSource = LocationSourceExplicit
	case req.Origin != nil && cs.geocoder != nil:
		geocode, err := cs.reverseGeocode(ctx, *req.Origin)
		if err != nil {
			result.GeocodeFailed = true
			break
		}
		result.Location = cs.resolver.Resolve(geocode, provinces, districtsOf)
		result.LocationSource = LocationSourceGeocoded
	}
	return result, nil
}

func (cs *CatalogService) applyFilters(result *CatalogResult, businesses []models.BusinessRecord, req models.FilterRequest) {
	result.Businesses = filter.Apply(businesses, req, &result.Location)

	recordResolution(result.LocationSource, result.Location)
	metrics.SearchResultsTotal.Observe(float64(len(result.Businesses)))
}

// Search resolve vị trí trước, lấy catalog theo tỉnh đã resolve rồi mới lọc.
// Geocoder chỉ được gọi một lần cho mỗi truy vấn.
func (cs *CatalogService) Search(ctx context.Context, req models.FilterRequest) (*CatalogResult, error) {
	if cs.locations == nil || !cs.locations.Loaded() {
		return nil, ErrDatasetNotLoaded
	}
	if cs.repo == nil {
		return nil, errors.New("business repository not configured")
	}

	t0 := time.Now()
	metrics.SearchRequestsTotal.Inc()
	defer func() {
		metrics.SearchDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()

	result, err := cs.locate(ctx, req, cs.locations.Provinces(), cs.locations.DistrictsOf)
	if err != nil {
		return nil, err
	}

	// đã biết tỉnh (chọn tay hoặc geocode) thì chỉ lấy catalog của tỉnh đó
	scope := models.BusinessScope{}
	if result.Location.Province != nil {
		id := result.Location.Province.ID
		scope.ProvinceID = &id
	}
	businesses, err := cs.repo.FindBusinesses(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy catalog: %w", err)
	}

	cs.applyFilters(result, businesses, req)

	cs.logger.Debug("Catalog search",
		zap.Int("fetched", len(businesses)),
		zap.Int("matched", len(result.Businesses)),
		zap.String("location_source", string(result.LocationSource)),
		zap.Bool("geocode_failed", result.GeocodeFailed),
		zap.Duration("took", time.Since(t0)))
	return result, nil
}

// ResolveLocation resolve từ tọa độ (qua geocoder) hoặc từ tên do caller đưa vào
func (cs *CatalogService) ResolveLocation(ctx context.Context, origin *models.Coordinate, names models.GeocodeResult) (*ResolveOutcome, error) {
	if cs.locations == nil || !cs.locations.Loaded() {
		return nil, ErrDatasetNotLoaded
	}

	out := &ResolveOutcome{Location: models.Unresolved(), LocationSource: LocationSourceNone}
	provinces := cs.locations.Provinces()

	switch {
	case origin != nil:
		if err := origin.Validate(); err != nil {
			return nil, err
		}
		if cs.geocoder == nil {
			out.GeocodeFailed = true
			break
		}
		geocode, err := cs.reverseGeocode(ctx, *origin)
		if err != nil {
			out.GeocodeFailed = true
			break
		}
		out.Geocode = geocode
		out.Location = cs.resolver.Resolve(geocode, provinces, cs.locations.DistrictsOf)
		out.LocationSource = LocationSourceGeocoded
	case !names.IsEmpty():
		out.Geocode = names
		out.Location = cs.resolver.Resolve(names, provinces, cs.locations.DistrictsOf)
		out.LocationSource = LocationSourceExplicit
	}

	recordResolution(out.LocationSource, out.Location)
	return out, nil
}

// reverseGeocode một lần thử với timeout riêng
func (cs *CatalogService) reverseGeocode(ctx context.Context, origin models.Coordinate) (models.GeocodeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, cs.timeout)
	defer cancel()

	geocode, err := cs.geocoder.ReverseGeocode(ctx, origin)
	if err != nil {
		cs.logger.Warn("Reverse geocode thất bại, bỏ qua filter vị trí",
			zap.Float64("lat", origin.Latitude),
			zap.Float64("lng", origin.Longitude),
			zap.Duration("timeout", cs.timeout),
			zap.Error(err))
		return models.GeocodeResult{}, err
	}
	return geocode, nil
}

// explicitLocation dựng vị trí từ id người dùng chọn, không matching tên.
// Chỉ có huyện thì tìm tỉnh chủ quản trong dataset; id lạ có chủ -> stub chỉ có id.
func explicitLocation(req models.FilterRequest, provinces []models.Province, districtsOf resolver.DistrictLookup) (models.ResolvedLocation, error) {
	loc := models.Unresolved()

	if req.ProvinceID != nil {
		p := models.Province{ID: *req.ProvinceID}
		for _, candidate := range provinces {
			if candidate.ID == *req.ProvinceID {
				p = candidate
				break
			}
		}
		loc.Province = &p
		loc.ProvinceMatch = models.MatchTierExplicit
	}

	if req.DistrictID == nil {
		return loc, nil
	}

	if loc.Province != nil {
		d := models.District{ID: *req.DistrictID, ProvinceID: loc.Province.ID}
		for _, candidate := range districtsOf(loc.Province.ID) {
			if candidate.ID == *req.DistrictID {
				d = candidate
				break
			}
		}
		loc.District = &d
		loc.DistrictMatch = models.MatchTierExplicit
		return loc, nil
	}

	for _, p := range provinces {
		for _, d := range districtsOf(p.ID) {
			if d.ID != *req.DistrictID {
				continue
			}
			province, district := p, d
			loc.Province = &province
			loc.District = &district
			loc.ProvinceMatch = models.MatchTierExplicit
			loc.DistrictMatch = models.MatchTierExplicit
			return loc, nil
		}
	}
	return loc, fmt.Errorf("%w: district %d không thuộc tỉnh nào", models.ErrUnknownRegion, *req.DistrictID)
}

func recordResolution(source LocationSourceKind, loc models.ResolvedLocation) {
	metrics.LocationSourceTotal.WithLabelValues(string(source)).Inc()
	metrics.MatchTierTotal.WithLabelValues("province", string(loc.ProvinceMatch)).Inc()
	metrics.MatchTierTotal.WithLabelValues("district", string(loc.DistrictMatch)).Inc()
}
