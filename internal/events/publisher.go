package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Event types.
const (
	TypeSessionExpired   = "session.expired"
	TypeViolationCreated = "violation.created"
	TypeVehiclesSynced   = "vehicles.synced"
)

// Publisher emits domain events to downstream consumers (notifications, dashboards).
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// RedisStreamPublisher appends events to a Redis Stream (XADD, approximate MAXLEN).
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: 10000, now: time.Now}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":      eventType,
			"data":      string(payload),
			"timestamp": p.now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// NopPublisher drops every event (Redis disabled).
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, data any) error { return nil }
