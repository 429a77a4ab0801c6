package notifier

import (
	"context"
	"fmt"

	"github.com/celidone/customers/internal/model"
	"github.com/go-redis/redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const subscriptionBuffer = 64

// RedisNotifier publishes events to redis channel and streams them back to subscribers,
// so every application instance observes changes made by any other instance.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Broadcast(ctx context.Context, e model.Event) error {
	encoded, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("failed to encode event - %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, encoded).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s - %w", n.channel, err)
	}
	return nil
}

// Subscribe returns channel closed once ctx is done, malformed messages are skipped
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan model.Event, error) {
	pubSub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubSub.Receive(ctx); err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s - %w", n.channel, err)
	}

	events := make(chan model.Event, subscriptionBuffer)
	go func() {
		defer close(events)
		defer pubSub.Close()

		messages := pubSub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var e model.Event
				if err := msgpack.Unmarshal([]byte(msg.Payload), &e); err != nil {
					logrus.Warnf("skipped malformed event on %s - %v", n.channel, err)
					continue
				}

				select {
				case events <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
