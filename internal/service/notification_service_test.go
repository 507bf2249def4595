package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/service-requests/internal/config"
	"github.com/spec-kit/service-requests/internal/events"
)

func TestNotificationService_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/requests",
	})

	ctx := context.Background()
	require.NoError(t, svc.Handle(ctx, events.Event{Type: events.EventUserRegistered, UserID: 7}))
	require.NoError(t, svc.Handle(ctx, events.Event{
		Type:    events.EventServiceRequestCreated,
		UserID:  7,
		Payload: events.ServiceRequestCreatedPayload{RequestID: 1, Title: "Leak", Priority: "High"},
	}))
	require.NoError(t, svc.Handle(ctx, events.Event{Type: "something_else"}))

	assert.Equal(t, 2, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationService_SkipsUnconfiguredChannels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{})

	require.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventServiceRequestCreated}))

	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
	assert.Equal(t, []events.EventType{events.EventUserRegistered, events.EventServiceRequestCreated}, svc.EventTypes())
}
