package workers

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/DarianStillwater/courtside/pkg/log"
	"github.com/DarianStillwater/courtside/pkg/match/types"
	"github.com/DarianStillwater/courtside/pkg/messages"
)

// RedisPublishWorker publishes match notifications to a Redis channel
// for downstream consumers (analytics, external scoreboards). Messages
// go out as plain JSON so subscribers need no codec.
type RedisPublishWorker struct {
	rdb           *redis.Client
	channel       string
	notifications <-chan types.Notification
}

type NewRedisPublishWorkerOptions struct {
	Client        *redis.Client
	Channel       string
	Notifications <-chan types.Notification
}

func NewRedisPublishWorker(opts NewRedisPublishWorkerOptions) *RedisPublishWorker {
	return &RedisPublishWorker{
		rdb:           opts.Client,
		channel:       opts.Channel,
		notifications: opts.Notifications,
	}
}

func (w *RedisPublishWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.notifications:
			w.publish(ctx, n)
		}
	}
}

func (w *RedisPublishWorker) publish(ctx context.Context, n types.Notification) {
	msg, err := messages.FromNotification(n)
	if err != nil {
		log.Error("Failed to build publish message: %v", err)
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to marshal publish message: %v", err)
		return
	}
	if err := w.rdb.Publish(ctx, w.channel, b).Err(); err != nil {
		log.Error("Failed to publish to redis channel %s: %v", w.channel, err)
	}
}
