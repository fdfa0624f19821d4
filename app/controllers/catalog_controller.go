package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/app/requests"
	"github.com/catalog-locator/app/responses"
	"github.com/catalog-locator/app/services"
	"github.com/catalog-locator/internal/geo"
)

const defaultPageSize = 50

// CatalogController controller tìm doanh nghiệp và tra cứu địa giới
type CatalogController struct {
	catalogService  *services.CatalogService
	locationService *services.LocationService
	pageSize        int
	logger          *zap.Logger
}

// NewCatalogController tạo mới CatalogController
func NewCatalogController(catalogService *services.CatalogService, locationService *services.LocationService, pageSize int, logger *zap.Logger) *CatalogController {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CatalogController{
		catalogService:  catalogService,
		locationService: locationService,
		pageSize:        pageSize,
		logger:          logger,
	}
}

// SearchBusinesses lọc catalog theo vị trí, danh mục, text
func (cc *CatalogController) SearchBusinesses(c *gin.Context) {
	var req requests.SearchBusinessesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	startTime := time.Now()

	result, err := cc.catalogService.Search(c.Request.Context(), req.ToFilter())
	if err != nil {
		cc.writeServiceError(c, err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = cc.pageSize
	}
	page := paginate(result.Businesses, req.Offset, limit)

	items := make([]responses.BusinessItem, 0, len(page))
	for _, b := range page {
		item := responses.BusinessItem{BusinessResult: b}
		if b.Distance != nil {
			item.DistanceText = geo.FormatDistance(*b.Distance)
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, responses.SearchBusinessesResponse{
		Results:          items,
		Total:            len(result.Businesses),
		Location:         locationInfo(result.Location, result.LocationSource, result.GeocodeFailed),
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// ResolveLocation resolve tọa độ hoặc tên thành tỉnh/huyện chuẩn
func (cc *CatalogController) ResolveLocation(c *gin.Context) {
	var req requests.ResolveLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	startTime := time.Now()
	names := models.GeocodeResult{CityName: req.CityName, DistrictName: req.DistrictName}

	out, err := cc.catalogService.ResolveLocation(c.Request.Context(), req.Origin, names)
	if err != nil {
		cc.writeServiceError(c, err)
		return
	}

	resp := responses.ResolveLocationResponse{
		Location:         locationInfo(out.Location, out.LocationSource, out.GeocodeFailed),
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	}
	if !out.Geocode.IsEmpty() {
		geocode := out.Geocode
		resp.Geocode = &geocode
	}
	c.JSON(http.StatusOK, resp)
}

// ListProvinces danh sách tỉnh cho picker
func (cc *CatalogController) ListProvinces(c *gin.Context) {
	provinces := cc.locationService.Provinces()
	c.JSON(http.StatusOK, responses.ProvincesResponse{
		Provinces: provinces,
		Total:     len(provinces),
	})
}

// ListDistricts danh sách huyện của tỉnh
func (cc *CatalogController) ListDistricts(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_PROVINCE_ID",
			Message: "Province ID không hợp lệ: " + c.Param("id"),
		})
		return
	}
	if _, ok := cc.locationService.Province(id); !ok {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "PROVINCE_NOT_FOUND",
			Message: "Không tìm thấy tỉnh " + c.Param("id"),
		})
		return
	}

	districts := cc.locationService.DistrictsOf(id)
	if districts == nil {
		districts = []models.District{}
	}
	c.JSON(http.StatusOK, responses.DistrictsResponse{
		ProvinceID: id,
		Districts:  districts,
		Total:      len(districts),
	})
}

// HealthCheck liveness
func (cc *CatalogController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "healthy",
		Service:   "catalog-locator",
		Timestamp: time.Now().Unix(),
	})
}

// Ready chỉ sẵn sàng khi đã có snapshot địa giới
func (cc *CatalogController) Ready(c *gin.Context) {
	if !cc.locationService.Loaded() {
		c.JSON(http.StatusServiceUnavailable, responses.HealthResponse{
			Status:    "loading",
			Service:   "catalog-locator",
			Timestamp: time.Now().Unix(),
		})
		return
	}
	cc.HealthCheck(c)
}

// writeServiceError map lỗi service sang HTTP status
func (cc *CatalogController) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "INVALID_COORDINATE", Message: err.Error()})
	case errors.Is(err, models.ErrUnknownRegion):
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{Error: "UNKNOWN_REGION", Message: err.Error()})
	case errors.Is(err, services.ErrDatasetNotLoaded):
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{Error: "DATASET_NOT_LOADED", Message: err.Error()})
	default:
		cc.logger.Error("Lỗi xử lý catalog", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CATALOG_ERROR",
			Message: "Lỗi xử lý catalog: " + err.Error(),
		})
	}
}

func locationInfo(loc models.ResolvedLocation, source services.LocationSourceKind, geocodeFailed bool) responses.LocationInfo {
	return responses.LocationInfo{
		Resolved:      loc.IsResolved(),
		Source:        string(source),
		Province:      loc.Province,
		District:      loc.District,
		ProvinceMatch: loc.ProvinceMatch,
		DistrictMatch: loc.DistrictMatch,
		GeocodeFailed: geocodeFailed,
	}
}

func paginate(results []models.BusinessResult, offset, limit int) []models.BusinessResult {
	if offset >= len(results) {
		return nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
