package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis publishes change signals on a per-user pub/sub channel so that every
// service instance watching a user sees writes made through any other.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis notifier. An empty prefix selects "promptkeeper:changes:".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "promptkeeper:changes:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) channel(userID string) string {
	return r.prefix + userID
}

func (r *Redis) Publish(ctx context.Context, userID string) error {
	return r.client.Publish(ctx, r.channel(userID), "changed").Err()
}

func (r *Redis) Subscribe(ctx context.Context, userID string) (<-chan struct{}, error) {
	ps := r.client.Subscribe(ctx, r.channel(userID))
	// wait for the subscription confirmation so no publish is missed after return
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel(userID), err)
	}

	out := make(chan struct{}, 1)
	msgs := ps.Channel()
	go func() {
		defer close(out)
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				signal(out)
			}
		}
	}()
	return out, nil
}
