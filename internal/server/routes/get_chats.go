package routes

import (
	"net/http"

	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetChatHistoryHandler(c echo.Context) error {
	type getChatParams struct {
		VideoID string `param:"video_id" validate:"required"`
	}

	params := new(getChatParams)
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
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	history, err := videos.GetChatHistory(ctx, params.VideoID, chatHistoryLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if history == nil {
		history = []store.ChatMessage{}
	}

	return c.JSON(http.StatusOK, history)
}

func DeleteChatHistoryHandler(c echo.Context) error {
	type deleteChatParams struct {
		VideoID string `param:"video_id" validate:"required"`
	}

	type deleteChatResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteChatParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteChatResponse{Message: "Invalid request params"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, deleteChatResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	videos := videostore.NewVideoDBStore(conn)

	if err := videos.DeleteChatHistory(ctx, params.VideoID); err != nil {
		return c.JSON(http.StatusInternalServerError, deleteChatResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, deleteChatResponse{Message: "Chat history deleted"})
}
