package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConnectWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	client, err := connectWithRetry(context.Background(), 3, time.Millisecond, func(context.Context) (*mongo.Client, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return &mongo.Client{}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	require.Equal(t, 3, calls)
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := connectWithRetry(context.Background(), 2, time.Millisecond, func(context.Context) (*mongo.Client, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	require.EqualError(t, err, "connection refused")
	require.Equal(t, 2, calls)
}

func TestConnectWithRetry_ZeroAttemptsTriesOnce(t *testing.T) {
	calls := 0
	_, err := connectWithRetry(context.Background(), 0, time.Millisecond, func(context.Context) (*mongo.Client, error) {
		calls++
		return nil, errors.New("down")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
