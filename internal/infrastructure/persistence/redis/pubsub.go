package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/boostly-hq/boostly/internal/infrastructure/messaging"
)

// ══════════════════════════════════════════════════════════════════════════════
// PUB/SUB TRANSPORT
// Мост между go-redis и messaging.RedisClient: через него RedisEventBus
// разносит события между API-сервером и воркером сброса.
// ══════════════════════════════════════════════════════════════════════════════

// PubSubTransport implements messaging.RedisClient on a go-redis client.
type PubSubTransport struct {
	client *redis.Client
	subs   []*redis.PubSub
}

// NewPubSubTransport creates a transport over an existing Cache connection.
func NewPubSubTransport(cache *Cache) *PubSubTransport {
	return &PubSubTransport{client: cache.Client()}
}

// Publish sends a message to a channel.
func (t *PubSubTransport) Publish(ctx context.Context, channel string, message interface{}) error {
	return t.client.Publish(ctx, channel, message).Err()
}

// Subscribe subscribes to channels and adapts the go-redis message stream
// to messaging.RedisMessage. The returned channel closes when ctx is done.
func (t *PubSubTransport) Subscribe(ctx context.Context, channels ...string) (<-chan messaging.RedisMessage, error) {
	sub := t.client.Subscribe(ctx, channels...)

	// Confirm the subscription before returning, so callers never miss
	// events published right after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	t.subs = append(t.subs, sub)

	out := make(chan messaging.RedisMessage)
	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				out <- messaging.RedisMessage{
					Channel: msg.Channel,
					Payload: msg.Payload,
				}
			}
		}
	}()

	return out, nil
}

// Close closes all active subscriptions. The underlying client is owned
// by the Cache and is not closed here.
func (t *PubSubTransport) Close() error {
	var firstErr error
	for _, sub := range t.subs {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.subs = nil
	return firstErr
}
