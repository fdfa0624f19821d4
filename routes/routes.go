package routes

// Routes package gom tất cả routing của catalog service
//
// Cấu trúc:
// - api.go: API routes (/v1/*), health, metrics, middleware
// - web.go: Web routes (/, /docs)
//
// Sử dụng:
// routes.SetupAllRoutes(router, catalogController, adminController, logger)
