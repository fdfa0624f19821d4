package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Business Catalog Locator",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "Catalog Locator API v1",
				"endpoints": map[string]string{
					"search":          "POST /v1/businesses/search",
					"resolve":         "POST /v1/locations/resolve",
					"provinces":       "GET /v1/locations/provinces",
					"districts":       "GET /v1/locations/provinces/:id/districts",
					"seed":            "POST /v1/admin/locations/seed?dry_run=true",
					"reload":          "POST /v1/admin/locations/reload",
					"invalidateCache": "POST /v1/admin/cache/invalidate",
					"stats":           "GET /v1/admin/stats",
					"health":          "GET /health",
					"metrics":         "GET /metrics",
				},
			})
		})
	}
}
