package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vidgraph/backend/internal/storage"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/store"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
)

// ProcessDeleteMessage removes a video row together with its chat history
// and archived transcript, then requests a graph rebuild so the snapshot
// stops referencing the document. A missing video is treated as already
// deleted, not as a failure.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(QueueDeleteVideoMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.VideoID == "" {
		logger.Warn("[Queue] Delete message without video id, dropping", "correlation_id", data.CorrelationID)
		return nil
	}

	videos := videostore.NewVideoDBStore(conn)

	video, err := videos.GetVideo(ctx, data.VideoID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up video %s: %w", data.VideoID, err)
	}
	if video == nil {
		logger.Info("[Queue] Video already deleted", "video_id", data.VideoID)
	} else {
		if err := videos.DeleteVideo(ctx, data.VideoID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to delete video %s: %w", data.VideoID, err)
		}
	}

	if err := storage.DeleteTranscript(ctx, s3Client, data.VideoID); err != nil {
		logger.Warn("[Queue] Failed to delete archived transcript", "video_id", data.VideoID, "err", err)
	}

	rebuildMsg, err := json.Marshal(QueueRebuildGraphMsg{
		Message:       "Video deleted",
		Reason:        "delete",
		CorrelationID: data.CorrelationID,
	})
	if err != nil {
		return err
	}
	if err := PublishFIFO(ch, RebuildQueue, rebuildMsg); err != nil {
		return fmt.Errorf("failed to enqueue rebuild after delete: %w", err)
	}

	logger.Info("[Queue] Video deleted", "video_id", data.VideoID)
	return nil
}
