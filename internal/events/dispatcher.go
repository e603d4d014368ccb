package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHandlerTimeout bounds each detached handler invocation.
const DefaultHandlerTimeout = 5 * time.Second

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	logger    *zap.Logger
}

// NewInMemoryDispatcher creates a dispatcher that runs handlers inline.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
	}
}

func (d *inMemoryDispatcher) handlers(eventType EventType) []EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]EventHandler{}, d.listeners[eventType]...)
}

// Publish synchronously invokes handlers for the given event. Handler failures are
// logged and do not stop the remaining handlers.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	for _, handler := range d.handlers(event.Type) {
		if err := handler(ctx, event); err != nil {
			d.logger.Error("event handler failed", zap.String("event_type", string(event.Type)), zap.String("event_id", event.ID), zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// AsyncDispatcher runs handlers on detached goroutines so that publishing never
// delays or fails the request that emitted the event.
type AsyncDispatcher struct {
	inner   *inMemoryDispatcher
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncDispatcher creates a detached dispatcher. A non-positive timeout uses
// DefaultHandlerTimeout.
func NewAsyncDispatcher(logger *zap.Logger, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = DefaultHandlerTimeout
	}
	return &AsyncDispatcher{
		inner:   NewInMemoryDispatcher(logger).(*inMemoryDispatcher),
		timeout: timeout,
	}
}

// Publish schedules the handlers and returns immediately. The request context only
// contributes its values; cancellation is not inherited.
func (d *AsyncDispatcher) Publish(ctx context.Context, event Event) error {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		runCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()
		_ = d.inner.Publish(runCtx, event)
	}()
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *AsyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

// Wait blocks until every scheduled handler has returned.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
