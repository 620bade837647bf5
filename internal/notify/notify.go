// Package notify delivers change notifications for single records over Redis
// pub/sub. The kiosk is purely notification-driven while waiting on a remote
// hand-off; it never polls the record store.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Update carries the changed fields of a watched record.
type Update struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}

// Channel publishes and subscribes to per-record update events.
type Channel struct {
	client *redis.Client
	logger *zap.Logger
}

// NewChannel wraps a Redis client as a change-notification channel.
func NewChannel(client *redis.Client, logger *zap.Logger) *Channel {
	return &Channel{client: client, logger: logger.Named("notify")}
}

// Publish announces an update for the record identified by id.
func (c *Channel) Publish(ctx context.Context, id uuid.UUID, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channelKey(id), payload).Err()
}

// Subscribe watches a single record. It returns a stream of updates and an
// idempotent unsubscribe that tears the subscription down and closes the
// stream.
func (c *Channel) Subscribe(ctx context.Context, id uuid.UUID) (<-chan Update, func(), error) {
	pubsub := c.client.Subscribe(ctx, channelKey(id))
	// Force the subscription onto the wire before the caller shows the code.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	updates := make(chan Update)
	done := make(chan struct{})
	go func() {
		defer close(updates)
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update Update
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					c.logger.Warn("malformed record update", zap.String("payload", msg.Payload), zap.Error(err))
					continue
				}
				select {
				case updates <- update:
				case <-done:
					return
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				c.logger.Warn("failed to close subscription", zap.Error(err))
			}
		})
	}
	return updates, unsubscribe, nil
}

func channelKey(id uuid.UUID) string {
	return "mobile_upload:" + id.String()
}
