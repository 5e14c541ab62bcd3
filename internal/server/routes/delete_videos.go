package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidgraph/backend/internal/queue"
	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

func DeleteVideoHandler(c echo.Context) error {
	type deleteVideoParams struct {
		ID string `param:"id" validate:"required"`
	}

	type deleteVideoResponse struct {
		Message       string `json:"message"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	params := new(deleteVideoParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteVideoResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteVideoResponse{Message: "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, deleteVideoResponse{Message: "Unauthorized"})
	}
	if !middleware.IsAdmin(user) {
		return c.JSON(http.StatusForbidden, deleteVideoResponse{Message: "Only admins can delete videos"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	if _, err := videos.GetVideo(ctx, params.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deleteVideoResponse{Message: "Video not found"})
		}
		return c.JSON(http.StatusInternalServerError, deleteVideoResponse{Message: "Internal server error"})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, deleteVideoResponse{Message: "Internal server error"})
	}

	msgBytes, err := json.Marshal(queue.QueueDeleteVideoMsg{
		Message:       "Delete video",
		VideoID:       params.ID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, deleteVideoResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DeleteQueue, msgBytes); err != nil {
		logger.Error("Failed to enqueue delete message", "video_id", params.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteVideoResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, deleteVideoResponse{
		Message:       "Video queued for deletion",
		CorrelationID: correlationID,
	})
}
