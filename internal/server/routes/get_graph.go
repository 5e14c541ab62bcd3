package routes

import (
	"net/http"

	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/pkg/common"
	"github.com/vidgraph/backend/pkg/knowledge"
	"github.com/vidgraph/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// currentSnapshot returns the engine snapshot matching the requested
// category scope, triggering a scoped rebuild when the cached snapshot
// covers a different scope.
func currentSnapshot(c echo.Context, category string) (*common.GraphSnapshot, error) {
	ctx := c.Request().Context()
	engine := c.(*middleware.AppContext).App.Engine

	snapshot, err := engine.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Category != category {
		snapshot, err = engine.Rebuild(ctx, category)
		if err != nil {
			return nil, err
		}
	}
	return snapshot, nil
}

func GetGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	snapshot, err := currentSnapshot(c, c.QueryParam("category"))
	if err != nil {
		logger.Error("Failed to build graph snapshot", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, snapshot)
}

func RebuildGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	engine := c.(*middleware.AppContext).App.Engine

	snapshot, err := engine.Rebuild(ctx, c.QueryParam("category"))
	if err != nil {
		logger.Error("Failed to rebuild graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, snapshot)
}

func GetCooccurrenceGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	snapshot, err := currentSnapshot(c, c.QueryParam("category"))
	if err != nil {
		logger.Error("Failed to build graph snapshot", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, knowledge.CoOccurrenceProjection(snapshot))
}

func GetSequenceGraphHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	snapshot, err := currentSnapshot(c, c.QueryParam("category"))
	if err != nil {
		logger.Error("Failed to build graph snapshot", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	// Oldest first, id as a stable tie break.
	projection := knowledge.SequenceProjection(snapshot, func(a, b *common.VideoDocument) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return c.JSON(http.StatusOK, projection)
}
