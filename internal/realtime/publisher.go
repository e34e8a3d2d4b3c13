package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher pushes change events onto redis pub/sub. Publishing is
// fire-and-forget: a failed publish is logged and the write it describes is
// already durable.
type Publisher struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewPublisher(rdb *redis.Client, logger *slog.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

func (p *Publisher) PublishChange(ctx context.Context, collection, op, id string) {
	change := Change{
		Collection: collection,
		Op:         op,
		ID:         id,
		Timestamp:  time.Now(),
	}

	payload, err := json.Marshal(change)
	if err != nil {
		p.logger.Error("failed to marshal change event", "error", err, "collection", collection)
		return
	}

	if err := p.rdb.Publish(ctx, channelFor(collection), payload).Err(); err != nil {
		p.logger.Warn("failed to publish change event",
			"error", err,
			"collection", collection,
			"op", op,
			"id", id)
	}
}
