package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/queue"
	"github.com/skynix/contact-service/internal/service"
)

// DeliverFunc delivers one queued notification.
type DeliverFunc func(ctx context.Context, msg queue.Message) error

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// NotificationWorker drains the notification queue. Messages are popped from
// the right so delivery follows enqueue order.
type NotificationWorker struct {
	rdb       *redis.Client
	queueName string
	deliver   DeliverFunc
	logger    *zap.Logger
	block     time.Duration
}

// NewNotificationWorker builds a worker. A nil deliver logs each message.
func NewNotificationWorker(rdb *redis.Client, queueName string, deliver DeliverFunc, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{
		rdb:       rdb,
		queueName: queueName,
		deliver:   deliver,
		logger:    logger,
		block:     time.Second,
	}
	if w.deliver == nil {
		w.deliver = w.logDelivery
	}
	return w
}

// Run blocks until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	w.logger.Info("notification worker started", zap.String("queue", w.queueName))
	for {
		if ctx.Err() != nil {
			w.logger.Info("notification worker stopped")
			return
		}
		if _, err := w.ProcessOne(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warn("notification delivery failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(w.block):
			}
		}
	}
}

// ProcessOne waits up to the block interval for a message and delivers it.
// It reports whether a message was consumed. Malformed messages are dropped.
func (w *NotificationWorker) ProcessOne(ctx context.Context) (bool, error) {
	res, err := w.rdb.BRPop(ctx, w.block, w.queueName).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var msg queue.Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		w.logger.Error("dropping malformed notification", zap.Error(err))
		return true, nil
	}
	return true, w.deliver(ctx, msg)
}

func (w *NotificationWorker) logDelivery(_ context.Context, msg queue.Message) error {
	w.logger.Info("notification delivered",
		zap.String("message_id", msg.ID),
		zap.String("type", string(msg.Type)),
		zap.Int64("submission_id", msg.SubmissionID))
	return nil
}
