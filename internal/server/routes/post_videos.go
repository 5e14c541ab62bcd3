package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidgraph/backend/internal/queue"
	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/pkg/fetch"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateVideoHandler accepts a YouTube URL (or bare video id) and enqueues
// the ingestion pipeline. The heavy work (transcript fetch, summarization,
// graph rebuild) happens on the worker.
func CreateVideoHandler(c echo.Context) error {
	type createVideoBody struct {
		URL      string `json:"url" validate:"required"`
		Category string `json:"category"`
		Language string `json:"language"`
	}

	type createVideoResponse struct {
		Message       string `json:"message"`
		VideoID       string `json:"video_id,omitempty"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(createVideoBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createVideoResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createVideoResponse{Message: "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, createVideoResponse{Message: "Unauthorized"})
	}

	videoID, err := fetch.ExtractVideoID(data.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, createVideoResponse{Message: "Not a valid YouTube URL"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	if _, err := videos.GetVideo(ctx, videoID); err == nil {
		return c.JSON(http.StatusConflict, createVideoResponse{
			Message: "Video already ingested",
			VideoID: videoID,
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, createVideoResponse{Message: "Internal server error"})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createVideoResponse{Message: "Internal server error"})
	}

	msgBytes, err := json.Marshal(queue.QueueIngestVideoMsg{
		Message:       "Ingest video",
		VideoID:       videoID,
		Category:      data.Category,
		Language:      data.Language,
		CorrelationID: correlationID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createVideoResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.IngestQueue, msgBytes); err != nil {
		logger.Error("Failed to enqueue ingest message", "video_id", videoID, "err", err)
		return c.JSON(http.StatusInternalServerError, createVideoResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, createVideoResponse{
		Message:       "Video queued for ingestion",
		VideoID:       videoID,
		CorrelationID: correlationID,
	})
}
