package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vidgraph/backend/internal/storage"
	"github.com/vidgraph/backend/internal/util"
	"github.com/vidgraph/backend/pkg/ai"
	"github.com/vidgraph/backend/pkg/common"
	"github.com/vidgraph/backend/pkg/fetch"
	"github.com/vidgraph/backend/pkg/logger"
	"github.com/vidgraph/backend/pkg/rag"
	videostore "github.com/vidgraph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

const (
	chunkTokenEncoder = "o200k_base"
	chunkMaxTokens    = 3000
	maxParallelChunks = 4
	fetchMaxTries     = 3
)

// ProcessIngestMessage runs the full ingestion pipeline for one video:
// fetch metadata and transcript, summarize the transcript into key points,
// upsert the video row, archive the raw transcript to S3, feed the RAG
// sidecar when one is configured, and finally request a graph rebuild.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.VideoAIClient,
	fetcher *fetch.Client,
	ragClient *rag.Client,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(QueueIngestVideoMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}
	if data.VideoID == "" {
		logger.Warn("[Queue] Ingest message without video id, dropping", "correlation_id", data.CorrelationID)
		return nil
	}

	startTime := time.Now()
	logger.Info("[Queue] Ingesting video", "video_id", data.VideoID, "correlation_id", data.CorrelationID)

	meta, err := util.RetryWithContext(ctx, fetchMaxTries, func(ctx context.Context) (*fetch.VideoMetadata, error) {
		return fetcher.FetchMetadata(ctx, data.VideoID)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch metadata for %s: %w", data.VideoID, err)
	}

	language := data.Language
	if language == "" {
		language = "en"
	}
	transcript, err := util.RetryWithContext(ctx, fetchMaxTries, func(ctx context.Context) (string, error) {
		return fetcher.FetchTranscript(ctx, data.VideoID, language)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch transcript for %s: %w", data.VideoID, err)
	}
	transcript = util.SanitizePostgresText(transcript)

	doc := common.VideoDocument{
		ID:         data.VideoID,
		Title:      meta.Title,
		Author:     meta.Author,
		Category:   meta.Category,
		Transcript: transcript,
	}
	if data.Category != "" {
		doc.Category = data.Category
	}

	if transcript == "" {
		logger.Warn("[Queue] No transcript available, storing video without key points", "video_id", data.VideoID)
	} else {
		keyPoints, category, err := summarizeTranscript(ctx, aiClient, meta, transcript)
		if err != nil {
			return fmt.Errorf("failed to summarize transcript for %s: %w", data.VideoID, err)
		}
		doc.KeyPoints = keyPoints
		if doc.Category == "" {
			doc.Category = category
		}
	}

	store := videostore.NewVideoDBStore(conn)
	if err := store.SaveVideo(ctx, doc); err != nil {
		return fmt.Errorf("failed to save video %s: %w", data.VideoID, err)
	}

	if transcript != "" {
		if err := storage.PutTranscript(ctx, s3Client, data.VideoID, transcript); err != nil {
			return fmt.Errorf("failed to archive transcript for %s: %w", data.VideoID, err)
		}
	}

	if ragClient != nil {
		if err := ragClient.InsertVideo(ctx, doc); err != nil {
			logger.Warn("[Queue] Failed to insert video into RAG service", "video_id", data.VideoID, "err", err)
		}
	}

	rebuildMsg, err := json.Marshal(QueueRebuildGraphMsg{
		Message:       "Video ingested",
		Reason:        "ingest",
		CorrelationID: data.CorrelationID,
	})
	if err != nil {
		return err
	}
	if err := PublishFIFO(ch, RebuildQueue, rebuildMsg); err != nil {
		return fmt.Errorf("failed to enqueue rebuild after ingest: %w", err)
	}

	logger.Info("[Queue] Video ingested",
		"video_id", data.VideoID,
		"title", doc.Title,
		"category", doc.Category,
		"key_points", len(doc.KeyPoints),
		"duration", time.Since(startTime).String(),
	)

	return nil
}

// summarizeTranscript chunks the transcript, extracts key points per chunk
// in parallel and merges the chunk results into one ordered list. Returns
// the key points and the model's category guess.
func summarizeTranscript(
	ctx context.Context,
	aiClient ai.VideoAIClient,
	meta *fetch.VideoMetadata,
	transcript string,
) ([]string, string, error) {
	chunks, err := ai.ChunkTranscript(transcript, chunkTokenEncoder, chunkMaxTokens)
	if err != nil {
		return nil, "", err
	}
	if len(chunks) == 0 {
		return nil, "", nil
	}

	chunkResults := make([]ai.KeyPointsResult, len(chunks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelChunks)
	for i, chunk := range chunks {
		g.Go(func() error {
			prompt := ai.SummarizeChunkPrompt(meta.Title, meta.Author, chunk.Text)
			return aiClient.GenerateCompletionWithFormat(
				gCtx,
				"key_points",
				"Key points and category extracted from a video transcript chunk",
				prompt,
				&chunkResults[i],
			)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	if len(chunks) == 1 {
		return chunkResults[0].KeyPoints, chunkResults[0].Category, nil
	}

	chunkPoints := make([][]string, len(chunkResults))
	for i, result := range chunkResults {
		chunkPoints[i] = result.KeyPoints
	}

	merged := ai.KeyPointsResult{}
	err = aiClient.GenerateCompletionWithFormat(
		ctx,
		"merged_key_points",
		"Deduplicated key points and category for a full video",
		ai.MergeKeyPointsPrompt(meta.Title, chunkPoints),
		&merged,
	)
	if err != nil {
		return nil, "", err
	}

	return merged.KeyPoints, merged.Category, nil
}
