package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vidgraph/backend/internal/server/middleware"
	"github.com/vidgraph/backend/pkg/ai"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/rag"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

const chatHistoryLimit = 20

// ChatHandler answers a question grounded in the video collection. When a
// video_id is given the conversation is scoped to that video and persisted;
// otherwise the question runs against collection-wide key points. A
// configured RAG sidecar contributes retrieved context on top.
func ChatHandler(c echo.Context) error {
	type chatBody struct {
		VideoID string `json:"video_id"`
		Message string `json:"message" validate:"required"`
		Mode    string `json:"mode"`
	}

	type chatResponse struct {
		Message string `json:"message"`
		Answer  string `json:"answer,omitempty"`
	}

	data := new(chatBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, chatResponse{Message: "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, chatResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	videos := videostore.NewVideoDBStore(app.DBConn)

	subject := "the video collection"
	var contextParts []string

	if data.VideoID != "" {
		video, err := videos.GetVideo(ctx, data.VideoID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, chatResponse{Message: "Video not found"})
			}
			return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		}
		subject = fmt.Sprintf("the video %q", video.Title)
		if len(video.KeyPoints) > 0 {
			contextParts = append(contextParts,
				fmt.Sprintf("Key points of %q by %s:\n- %s",
					video.Title, video.Author, strings.Join(video.KeyPoints, "\n- ")))
		}
	} else {
		docs, err := videos.ListDocuments(ctx, store.DocumentFilter{})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		}
		for _, doc := range docs {
			if len(doc.KeyPoints) == 0 {
				continue
			}
			contextParts = append(contextParts,
				fmt.Sprintf("%q by %s:\n- %s", doc.Title, doc.Author, strings.Join(doc.KeyPoints, "\n- ")))
		}
	}

	if app.Rag != nil {
		ragAnswer, err := app.Rag.Query(ctx, data.Message, rag.QueryMode(data.Mode))
		if err != nil {
			logger.Warn("RAG query failed, answering from key points only", "err", err)
		} else if ragAnswer != "" {
			contextParts = append(contextParts, "Retrieved context:\n"+ragAnswer)
		}
	}

	messages := []ai.ChatMessage{}
	if data.VideoID != "" {
		history, err := videos.GetChatHistory(ctx, data.VideoID, chatHistoryLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
		}
		for _, entry := range history {
			messages = append(messages, ai.ChatMessage{
				Message: entry.Content,
				Role:    entry.Role,
			})
		}
	}
	messages = append(messages, ai.ChatMessage{
		Message: data.Message,
		Role:    "user",
	})

	systemPrompt := ai.ChatSystemPrompt(subject, strings.Join(contextParts, "\n\n"))
	answer, err := app.AiClient.GenerateChat(ctx, messages, ai.WithSystemPrompts(systemPrompt))
	if err != nil {
		logger.Error("Chat completion failed", "err", err)
		return c.JSON(http.StatusInternalServerError, chatResponse{Message: "Internal server error"})
	}

	if data.VideoID != "" {
		if _, err := videos.SaveChatMessage(ctx, store.ChatMessage{
			VideoID: data.VideoID,
			Role:    "user",
			Content: data.Message,
		}); err != nil {
			logger.Warn("Failed to persist chat message", "video_id", data.VideoID, "err", err)
		}
		if _, err := videos.SaveChatMessage(ctx, store.ChatMessage{
			VideoID: data.VideoID,
			Role:    "assistant",
			Content: answer,
		}); err != nil {
			logger.Warn("Failed to persist chat message", "video_id", data.VideoID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, chatResponse{
		Message: "OK",
		Answer:  answer,
	})
}
