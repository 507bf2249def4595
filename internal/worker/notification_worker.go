package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/service-requests/internal/events"
)

// Errors returned to the publisher when an event cannot be queued.
var (
	ErrQueueFull = errors.New("notification queue full")
	ErrStopped   = errors.New("notification worker stopped")
)

const defaultQueueSize = 128

// Notifier delivers notifications for a single event.
type Notifier interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker drains domain events into a Notifier on its own goroutine
// so request handling never waits on notification delivery.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// StartNotificationWorker subscribes the worker to every event type the
// notifier handles and starts consuming. queueSize <= 0 uses a default.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, queueSize),
		done:     make(chan struct{}),
	}
	for _, eventType := range notifier.EventTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run()
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrStopped
	}
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("dropping notification", zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
		return ErrQueueFull
	}
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		// The publishing request may already be finished; notifications get a fresh context.
		if err := w.notifier.Handle(context.Background(), event); err != nil {
			w.logger.Error("notification failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// Stop stops accepting events and waits until queued ones are delivered or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
