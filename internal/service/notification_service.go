package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/events"
	"github.com/skynix/contact-service/internal/validation"
)

// NotificationPublisher hands events to an out-of-process consumer.
type NotificationPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  NotificationPublisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher NotificationPublisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handleSubmissionCreated)
}

func (n *NotificationService) handleSubmissionCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionCreated",
		zap.Int64("submission_id", event.SubmissionID),
		zap.String("event_id", event.ID))

	var queueErr error
	if n.publisher != nil {
		queueErr = n.publisher.Publish(ctx, event)
	}
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return queueErr
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(n.cfg.EmailTo) == "" {
		return
	}
	if !validation.IsValidEmail(n.cfg.EmailFrom) || !validation.IsValidEmail(n.cfg.EmailTo) {
		n.logger.Warn("email notification skipped, invalid address",
			zap.String("from", n.cfg.EmailFrom),
			zap.String("to", n.cfg.EmailTo))
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", n.cfg.EmailTo),
		zap.Int64("submission_id", event.SubmissionID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("submission_id", event.SubmissionID),
		zap.String("event_type", string(event.Type)))
}
