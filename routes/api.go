package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalog-locator/app/controllers"
	"github.com/catalog-locator/helpers/utils"
	"github.com/catalog-locator/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, catalogController *controllers.CatalogController, adminController *controllers.AdminController) {
	// API v1 group
	v1 := router.Group("/v1")
	{
		businesses := v1.Group("/businesses")
		{
			businesses.POST("/search", catalogController.SearchBusinesses)
		}

		locations := v1.Group("/locations")
		{
			locations.POST("/resolve", catalogController.ResolveLocation)
			locations.GET("/provinces", catalogController.ListProvinces)
			locations.GET("/provinces/:id/districts", catalogController.ListDistricts)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.POST("/locations/seed", adminController.SeedLocations)
			admin.POST("/locations/reload", adminController.ReloadLocations)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.GET("/stats", adminController.GetStats)
		}

		v1.GET("/health", catalogController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, catalogController *controllers.CatalogController) {
	router.GET("/health", catalogController.HealthCheck)
	router.GET("/ready", catalogController.Ready)
	router.GET("/live", catalogController.HealthCheck)
}

// SetupMetricsRoutes thiết lập metrics routes (cho Prometheus)
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// SetupAllRoutes thiết lập tất cả routes
func SetupAllRoutes(router *gin.Engine, catalogController *controllers.CatalogController, adminController *controllers.AdminController, logger *zap.Logger) {
	setupMiddleware(router, logger)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, catalogController)
	SetupAPIRoutes(router, catalogController, adminController)
	SetupMetricsRoutes(router)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(logger))
}

// RequestID gắn X-Request-ID (giữ id của client nếu hợp lệ)
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !utils.ValidRequestID(id) {
			id = utils.GenerateUUID()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog log mỗi request bằng zap
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
