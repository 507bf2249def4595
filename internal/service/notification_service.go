package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/events"
)

// NotificationService turns domain events into (stubbed) email and webhook notifications.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// EventTypes lists the events Handle knows how to notify about.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{events.EventUserRegistered, events.EventServiceRequestCreated}
}

// Handle sends the notifications for one event. Unknown event types are ignored.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventUserRegistered:
		return n.handleUserRegistered(ctx, event)
	case events.EventServiceRequestCreated:
		return n.handleServiceRequestCreated(ctx, event)
	default:
		return nil
	}
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.Int64("user_id", event.UserID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleServiceRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ServiceRequestCreated", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}
