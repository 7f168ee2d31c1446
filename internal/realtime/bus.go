package realtime

import (
	"context"
	"errors"
	"sync"
)

// Bus moves events between server instances. Publish hands an event to the
// bus and StartForwarder delivers every published event to onEvent.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	StartForwarder(ctx context.Context, onEvent func(Event)) error
	Close() error
}

// LocalBus is the single-instance Bus used when no Redis is configured.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []func(Event)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
	return nil
}

func (b *LocalBus) StartForwarder(ctx context.Context, onEvent func(Event)) error {
	if onEvent == nil {
		return errors.New("onEvent callback required")
	}

	b.mu.Lock()
	b.handlers = append(b.handlers, onEvent)
	idx := len(b.handlers) - 1
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		handlers := make([]func(Event), 0, len(b.handlers))
		for i, h := range b.handlers {
			if i != idx {
				handlers = append(handlers, h)
			}
		}
		b.handlers = handlers
		b.mu.Unlock()
	}()

	return nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
	return nil
}
