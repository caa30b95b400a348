package server

import (
	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.POST("/graph/reload", routes.PostReloadHandler)
	apiRoutes.GET("/graph/search", routes.GetSearchHandler)
	apiRoutes.GET("/graph/styles", routes.GetStylesHandler)

	// Overlay routes
	apiRoutes.GET("/overlay/path", routes.GetOverlayPathHandler)
	apiRoutes.GET("/overlay/clusters", routes.GetOverlayClustersHandler)

	// Analytics routes
	apiRoutes.GET("/metrics", routes.GetMetricsHandler)
	apiRoutes.POST("/detect-relationships", routes.PostDetectHandler)

	// Export routes
	apiRoutes.GET("/export/:format", routes.GetExportHandler)
	apiRoutes.POST("/export/archive", routes.PostExportArchiveHandler)
	apiRoutes.GET("/export/archives", routes.GetExportArchivesHandler)
}
