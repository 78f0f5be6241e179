package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerbridge/careerbridge-api/internal/application"
)

const (
	recipientChannelPrefix = "notify:user:"
	adminObserverChannel   = "notify:admins"
)

// RedisNotifier delivers realtime notifications over Redis pub/sub. The
// websocket gateway subscribes to the per-user channels; admin dashboards
// subscribe to the shared observer channel. Fire-and-forget by design.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

type envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func (n *RedisNotifier) publish(ctx context.Context, channel, event string, payload any) error {
	b, err := json.Marshal(envelope{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, channel, b).Err()
}

func (n *RedisNotifier) SendToRecipient(ctx context.Context, accountID, event string, payload any) error {
	return n.publish(ctx, recipientChannelPrefix+accountID, event, payload)
}

func (n *RedisNotifier) SendToAdminObservers(ctx context.Context, event string, payload any) error {
	return n.publish(ctx, adminObserverChannel, event, payload)
}

var _ application.Notifier = (*RedisNotifier)(nil)
