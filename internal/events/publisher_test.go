package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStreamPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisStreamPublisher(client, "housing:events")
	ctx := context.Background()

	err := p.Publish(ctx, TypeSessionExpired, map[string]any{"userId": 3, "username": "inquiry_user"})
	require.NoError(t, err)

	msgs, err := client.XRange(ctx, "housing:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeSessionExpired, msgs[0].Values["type"])

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &data))
	assert.Equal(t, "inquiry_user", data["username"])
}

func TestRedisStreamPublisher_EncodeError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewRedisStreamPublisher(client, "housing:events")
	err := p.Publish(context.Background(), TypeViolationCreated, map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), TypeVehiclesSynced, nil))
}
