package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/vidgraph/backend/pkg/knowledge"
	"github.com/vidgraph/backend/pkg/leaselock"
	"github.com/vidgraph/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const rebuildLockKey = "graph:rebuild"

// ProcessRebuildMessage rebuilds the in-memory knowledge graph under a
// database lease so that only one worker rebuilds at a time. A busy lease
// means another worker is already rebuilding a fresher state, so the
// message is dropped rather than retried.
func ProcessRebuildMessage(
	ctx context.Context,
	engine *knowledge.Engine,
	locks *leaselock.Client,
	ch *amqp091.Channel,
	msg string,
) error {
	data := new(QueueRebuildGraphMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}

	err := locks.WithLease(ctx, rebuildLockKey, leaselock.Options{
		TTL:        3 * time.Minute,
		RenewEvery: time.Minute,
	}, func(leaseCtx context.Context) error {
		snapshot, err := engine.Rebuild(leaseCtx, data.Category)
		if err != nil {
			return err
		}

		event, err := json.Marshal(map[string]any{
			"category":   snapshot.Category,
			"nodes":      snapshot.Stats.NodeCount,
			"edges":      snapshot.Stats.EdgeCount,
			"reason":     data.Reason,
			"rebuilt_at": time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := PublishTopic(ch, "graph.rebuilt", event); err != nil {
			logger.Warn("[Queue] Failed to publish rebuild event", "err", err)
		}
		return nil
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Graph rebuild already running elsewhere, skipping", "category", data.Category)
		return nil
	}
	return err
}
