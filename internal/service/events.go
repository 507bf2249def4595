package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/events"
)

// eventPublisher stamps and publishes domain events. Publish failures are
// logged and never returned to the caller.
type eventPublisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newEventPublisher(dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time) eventPublisher {
	return eventPublisher{dispatcher: dispatcher, logger: logger, now: now}
}

func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = p.now().UTC()
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("publish event failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
