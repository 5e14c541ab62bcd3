package routes

import (
	"errors"
	"net/http"

	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/internal/storage"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/common"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetVideosHandler(c echo.Context) error {
	type videoSummary struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Author    string   `json:"author"`
		Category  string   `json:"category"`
		KeyPoints []string `json:"key_points"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	docs, err := videos.ListDocuments(ctx, store.DocumentFilter{
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	resp := make([]videoSummary, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, videoSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			Author:    doc.Author,
			Category:  doc.Category,
			KeyPoints: doc.KeyPoints,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func GetCategoriesHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	categories, err := videos.ListCategories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(http.StatusOK, categories)
}

func GetVideoHandler(c echo.Context) error {
	type getVideoParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getVideoResponse struct {
		Message string                `json:"message"`
		Video   *common.VideoDocument `json:"video,omitempty"`
	}

	params := new(getVideoParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getVideoResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getVideoResponse{Message: "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getVideoResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	video, err := videos.GetVideo(ctx, params.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getVideoResponse{Message: "Video not found"})
		}
		return c.JSON(http.StatusInternalServerError, getVideoResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, getVideoResponse{
		Message: "Video found",
		Video:   video,
	})
}

func GetVideoTranscriptHandler(c echo.Context) error {
	type getTranscriptParams struct {
		ID string `param:"id" validate:"required"`
	}

	type getTranscriptResponse struct {
		Message    string `json:"message"`
		Transcript string `json:"transcript,omitempty"`
	}

	params := new(getTranscriptParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getTranscriptResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getTranscriptResponse{Message: "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, getTranscriptResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	if _, err := videos.GetVideo(ctx, params.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getTranscriptResponse{Message: "Video not found"})
		}
		return c.JSON(http.StatusInternalServerError, getTranscriptResponse{Message: "Internal server error"})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	url, err := storage.GenerateTranscriptLink(ctx, s3Client, params.ID)
	if err == nil {
		return c.JSON(http.StatusOK, getTranscriptResponse{Message: url})
	}

	// Deployments without a public object endpoint cannot presign, so
	// stream the transcript through the API instead.
	logger.Warn("Falling back to inline transcript delivery", "video_id", params.ID, "error", err)
	transcript, err := storage.GetTranscript(ctx, s3Client, params.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, getTranscriptResponse{Message: "Transcript does not exist"})
	}

	return c.JSON(http.StatusOK, getTranscriptResponse{
		Message:    "Transcript retrieved",
		Transcript: transcript,
	})
}

func GetRelatedVideosHandler(c echo.Context) error {
	type getRelatedParams struct {
		ID string `param:"id" validate:"required"`
	}

	type relatedVideo struct {
		VideoID        string   `json:"video_id"`
		Title          string   `json:"title"`
		Kind           string   `json:"kind"`
		Weight         float64  `json:"weight"`
		Tier           string   `json:"tier"`
		Reason         string   `json:"reason"`
		SharedThemes   []string `json:"shared_themes,omitempty"`
		SharedEntities int      `json:"shared_entities,omitempty"`
	}

	params := new(getRelatedParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	engine := c.(*middleware.AppContext).App.Engine

	related, err := engine.RelatedDocuments(ctx, params.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Video not in graph"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	resp := make([]relatedVideo, 0, len(related))
	for _, r := range related {
		entry := relatedVideo{
			Kind:           string(r.Edge.Kind),
			Weight:         r.Edge.Weight,
			Tier:           r.Edge.Tier,
			Reason:         r.Edge.Reason,
			SharedThemes:   r.Edge.SharedThemes,
			SharedEntities: r.Edge.SharedEntities,
		}
		if r.Peer != nil {
			entry.VideoID = r.Peer.ID
			entry.Title = r.Peer.Title
		}
		resp = append(resp, entry)
	}

	return c.JSON(http.StatusOK, resp)
}
