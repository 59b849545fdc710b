package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectMongoWithRetry keeps trying ConnectMongo at startup, when the database
// container may still be coming up. Request-path operations are never retried.
func ConnectMongoWithRetry(ctx context.Context, uri string, timeout time.Duration, attempts uint) (*mongo.Client, error) {
	return connectWithRetry(ctx, attempts, time.Second, func(ctx context.Context) (*mongo.Client, error) {
		return ConnectMongo(ctx, uri, timeout)
	})
}

func connectWithRetry(ctx context.Context, attempts uint, delay time.Duration, dial func(context.Context) (*mongo.Client, error)) (*mongo.Client, error) {
	if attempts == 0 {
		attempts = 1
	}
	log := logger.With("database")
	return retry.DoWithData(
		func() (*mongo.Client, error) {
			return dial(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("mongo not ready (attempt %d/%d): %v", n+1, attempts, err)
		}),
	)
}
