package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/models"
	"github.com/catalog-locator/app/requests"
	"github.com/catalog-locator/app/responses"
	"github.com/catalog-locator/app/services"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController tạo mới AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// SeedLocations seed dataset địa giới; ?dry_run=true chỉ validate
func (ac *AdminController) SeedLocations(c *gin.Context) {
	var req requests.SeedLocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: "Request không hợp lệ: " + err.Error(),
		})
		return
	}

	dryRun := c.Query("dry_run") == "true"
	ds := &models.LocationDataset{Provinces: req.Provinces, Districts: req.Districts}

	result, err := ac.adminService.SeedLocations(c.Request.Context(), ds, dryRun)
	if err != nil && !errors.Is(err, services.ErrInvalidDataset) {
		ac.logger.Error("Lỗi seed locations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "SEED_ERROR",
			Message: "Lỗi seed locations: " + err.Error(),
		})
		return
	}

	resp := responses.SeedLocationsResponse{
		ValidationPassed: result.Validation.Passed,
		Errors:           result.Validation.Errors,
		Warnings:         result.Validation.Warnings,
		Provinces:        result.Validation.Provinces,
		Districts:        result.Validation.Districts,
		DocumentsWritten: result.DocumentsWritten,
		CacheInvalidated: result.CacheInvalidated,
		ProcessingTimeMs: result.ProcessingTimeMs,
		DryRun:           dryRun,
	}

	switch {
	case err != nil:
		resp.Message = "Dataset không hợp lệ"
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	case dryRun:
		resp.Message = "Validation hoàn thành thành công"
	default:
		resp.Message = "Seed locations thành công"
	}
	c.JSON(http.StatusOK, resp)
}

// ReloadLocations đọc lại dataset từ source
func (ac *AdminController) ReloadLocations(c *gin.Context) {
	startTime := time.Now()

	stats, err := ac.adminService.ReloadLocations(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi reload locations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "RELOAD_ERROR",
			Message: "Lỗi reload locations: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Reload locations thành công",
		Data: map[string]interface{}{
			"provinces":          stats.Provinces,
			"districts":          stats.Districts,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
	})
}

// InvalidateCache xóa geocode cache
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	startTime := time.Now()

	if err := ac.adminService.InvalidateGeocodeCache(c.Request.Context()); err != nil {
		ac.logger.Error("Lỗi invalidate cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "INVALIDATE_ERROR",
			Message: "Lỗi invalidate cache: " + err.Error(),
		})
		return
	}

	processingTime := time.Since(startTime)
	ac.logger.Info("Invalidate geocode cache thành công", zap.Duration("duration", processingTime))

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Invalidate cache thành công",
		Data: map[string]interface{}{
			"processing_time_ms": processingTime.Milliseconds(),
		},
	})
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := ac.adminService.GetSystemStats(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi lấy stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "STATS_ERROR",
			Message: "Lỗi lấy stats: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
