// Package queue pushes submission notifications onto a Redis list for
// out-of-process consumers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/events"
)

// Message is the JSON document pushed onto the queue.
type Message struct {
	ID           string           `json:"id"`
	EventID      string           `json:"event_id"`
	Type         events.EventType `json:"type"`
	SubmissionID int64            `json:"submission_id"`
	Payload      interface{}      `json:"payload"`
	EnqueuedAt   time.Time        `json:"enqueued_at"`
}

// Publisher sends notification messages to Redis.
type Publisher struct {
	rdb       *redis.Client
	queueName string
	logger    *zap.Logger
}

// NewPublisher creates a Redis publisher targeting the named list.
func NewPublisher(rdb *redis.Client, queueName string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{rdb: rdb, queueName: queueName, logger: logger}
}

// Publish serialises the event and LPUSHes it; consumers pop from the right.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	msg := Message{
		ID:           uuid.NewString(),
		EventID:      event.ID,
		Type:         event.Type,
		SubmissionID: event.SubmissionID,
		Payload:      event.Payload,
		EnqueuedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal queue message: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queueName, raw).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	p.logger.Info("published notification",
		zap.String("message_id", msg.ID),
		zap.Int64("submission_id", event.SubmissionID),
		zap.String("queue", p.queueName),
	)
	return nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
