package server

import (
	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Video routes
	apiRoutes.GET("/videos", routes.GetVideosHandler)
	apiRoutes.POST("/videos", routes.CreateVideoHandler)
	apiRoutes.GET("/videos/:id", routes.GetVideoHandler)
	apiRoutes.DELETE("/videos/:id", routes.DeleteVideoHandler)
	apiRoutes.GET("/videos/:id/transcript", routes.GetVideoTranscriptHandler)
	apiRoutes.GET("/videos/:id/related", routes.GetRelatedVideosHandler)
	apiRoutes.GET("/categories", routes.GetCategoriesHandler)

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.POST("/graph/rebuild", routes.RebuildGraphHandler)
	apiRoutes.GET("/graph/cooccurrence", routes.GetCooccurrenceGraphHandler)
	apiRoutes.GET("/graph/sequence", routes.GetSequenceGraphHandler)

	// Chat routes
	apiRoutes.POST("/chat", routes.ChatHandler)
	apiRoutes.GET("/chat/:video_id", routes.GetChatHistoryHandler)
	apiRoutes.DELETE("/chat/:video_id", routes.DeleteChatHistoryHandler)
}
