package store

import (
	"context"
	"errors"

	"github.com/vidgraph/backend/pkg/common"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// DocumentFilter narrows a document listing. The zero value matches
// everything.
type DocumentFilter struct {
	Category string
}

// DocumentSource is the read side the graph engine depends on. The engine
// only ever lists documents; it never writes.
type DocumentSource interface {
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]common.VideoDocument, error)
}

// VideoStore persists video documents and their transcripts' metadata.
type VideoStore interface {
	DocumentSource
	GetVideo(ctx context.Context, id string) (*common.VideoDocument, error)
	SaveVideo(ctx context.Context, doc common.VideoDocument) error
	DeleteVideo(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
}

// ChatMessage is one turn of a stored conversation.
type ChatMessage struct {
	ID      int64
	VideoID string
	Role    string
	Content string
}

// ChatStore persists per-video chat history.
type ChatStore interface {
	SaveChatMessage(ctx context.Context, msg ChatMessage) (int64, error)
	GetChatHistory(ctx context.Context, videoID string, limit int) ([]ChatMessage, error)
	DeleteChatHistory(ctx context.Context, videoID string) error
}
