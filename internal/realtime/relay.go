package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Relay bridges redis pub/sub onto the in-process hub so every server
// instance sees changes made through any other instance.
type Relay struct {
	rdb    *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewRelay(rdb *redis.Client, hub *Hub, logger *slog.Logger) *Relay {
	return &Relay{rdb: rdb, hub: hub, logger: logger}
}

// Run consumes change channels until context cancellation.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.rdb.PSubscribe(ctx, ChannelPrefix+"*")
	defer pubsub.Close()

	r.logger.Info("change relay started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("change relay stopped")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				r.logger.Warn("malformed change event dropped",
					"error", err,
					"channel", msg.Channel)
				continue
			}

			r.hub.Broadcast(change)
		}
	}
}
