// Package events publishes digest lifecycle events to Redis Streams for
// external consumers (analytics, notification fan-out). There is no
// in-process consumer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Stream name constants
const (
	StreamDigestEvents = "digest:events"
)

// Schema version constant
const (
	SchemaVersionV1 = "v1"
)

// DigestSent records one successfully dispatched digest email.
type DigestSent struct {
	EventID    string `json:"event_id"`
	ScheduleID uint   `json:"schedule_id"`
	UserID     uint   `json:"user_id"`
	Subject    string `json:"subject"`
	TaskCount  int    `json:"task_count"`
}

// Publisher publishes digest events to Redis Streams
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new Publisher instance
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Publisher{rdb: redis.NewClient(opts)}, nil
}

// PublishDigestSent publishes a digest-sent event to the stream.
func (p *Publisher) PublishDigestSent(ctx context.Context, event DigestSent) (string, error) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	result := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamDigestEvents,
		MaxLen: 10000,
		Approx: true,
		ID:     "*", // auto-generate ID
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   time.Now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	})

	if result.Err() != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", result.Err())
	}

	return result.Val(), nil
}

// Close closes the Redis client connection
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
