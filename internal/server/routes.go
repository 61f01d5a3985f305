package server

import (
	"github.com/docugraph/backend/internal/server/middleware"
	"github.com/docugraph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Document routes
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/documents", routes.UploadDocumentHandler)
	apiRoutes.GET("/documents/:id", routes.GetDocumentHandler)
	apiRoutes.DELETE("/documents/:id", routes.DeleteDocumentHandler)
	apiRoutes.GET("/documents/:id/download", routes.DownloadDocumentHandler)

	// Query routes
	apiRoutes.POST("/query", routes.QueryHandler)

	// Graph routes
	apiRoutes.GET("/graph/document/:id", routes.GetDocumentGraphHandler)
	apiRoutes.GET("/graph/user", routes.GetUserGraphHandler)
	apiRoutes.GET("/graph/related", routes.GetRelatedEntitiesHandler)
	apiRoutes.GET("/graph/path", routes.GetShortestPathHandler)
	apiRoutes.GET("/graph/statistics", routes.GetStatisticsHandler)
}
