package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"topup/kit/observability"
)

var ErrClosed = errors.New("bus closed")

type Event interface {
	Name() string
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) []error
}

type Handler func(ctx context.Context, evt Event) error

// Bus delivers events synchronously, in subscription order, to every handler
// registered for the event name. A panicking handler is reported as an error
// and does not stop delivery to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
	logger   *observability.Logger
}

func New() *Bus {
	return NewWithLogger(observability.L())
}

func NewWithLogger(logger *observability.Logger) *Bus {
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

func (b *Bus) Subscribe(eventName string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

func (b *Bus) Publish(ctx context.Context, evt Event) []error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return []error{ErrClosed}
	}
	hs := append([]Handler(nil), b.handlers[evt.Name()]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("broker handler panic", "event", evt.Name(), "handler_index", i, "panic", r)
					errs = append(errs, fmt.Errorf("handler %d for %s panicked: %v", i, evt.Name(), r))
				}
			}()
			if err := h(ctx, evt); err != nil {
				b.logger.Warn("broker handler error", "event", evt.Name(), "handler_index", i, "err", err)
				errs = append(errs, err)
			}
		}()
	}
	return errs
}

// Close drops every subscription; later publishes return ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string][]Handler)
}
