// Package events is the in-process mutation fan-out. Services publish a
// named event after a committed write and subscribers (the book count job)
// react either inline or in a detached goroutine.
//
// Delivery is fire-and-forget: nothing is persisted or retried, and a failed
// or panicking subscriber never reaches the publisher.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBusSealed is returned by Subscribe and SubscribeAsync after Seal.
var ErrBusSealed = errors.New("event bus is sealed")

// Event is what every subscriber receives.
type Event struct {
	Name       string
	Payload    any
	OccurredAt time.Time
}

// Handler reacts to one event. A returned error is logged by the bus.
type Handler func(ctx context.Context, evt Event) error

// Publisher is the narrow view services depend on.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any)
}

// Observer is notified once per Publish call. The metrics collector
// implements it.
type Observer interface {
	EventPublished(name string)
}

type subscription struct {
	handler Handler
	async   bool
}

// Bus is a registry of subscribers keyed by event name.
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]subscription
	sealed   atomic.Bool
	inflight sync.WaitGroup
	observer Observer
}

// Option configures a Bus.
type Option func(*Bus)

// WithObserver attaches an Observer to the bus.
func WithObserver(o Observer) Option {
	return func(b *Bus) {
		b.observer = o
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{subs: make(map[string][]subscription)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler that runs inline inside Publish.
func (b *Bus) Subscribe(name string, h Handler) error {
	return b.add(name, subscription{handler: h})
}

// SubscribeAsync registers a handler that runs in its own goroutine.
// Publish never waits for it.
func (b *Bus) SubscribeAsync(name string, h Handler) error {
	return b.add(name, subscription{handler: h, async: true})
}

func (b *Bus) add(name string, s subscription) error {
	if s.handler == nil {
		return fmt.Errorf("subscribe %q: nil handler", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed.Load() {
		return fmt.Errorf("subscribe %q: %w", name, ErrBusSealed)
	}
	b.subs[name] = append(b.subs[name], s)
	return nil
}

// Seal freezes the subscriber set. It is called once wiring is complete.
func (b *Bus) Seal() {
	b.mu.Lock()
	b.sealed.Store(true)
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber of name exactly once, in
// registration order. Async subscribers run on a context detached from ctx
// so that the caller's request ending does not cancel them.
func (b *Bus) Publish(ctx context.Context, name string, payload any) {
	b.mu.RLock()
	subs := b.subs[name]
	b.mu.RUnlock()

	if b.observer != nil {
		b.observer.EventPublished(name)
	}

	evt := Event{Name: name, Payload: payload, OccurredAt: time.Now()}

	for _, s := range subs {
		if !s.async {
			b.run(ctx, s.handler, evt)
			continue
		}

		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			b.run(context.WithoutCancel(ctx), h, evt)
		}(s.handler)
	}
}

// Wait blocks until every detached handler started so far has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// WaitContext is Wait bounded by ctx. It is used during shutdown.
func (b *Bus) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) run(ctx context.Context, h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("event", evt.Name).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()

	if err := h(ctx, evt); err != nil {
		log.Error().
			Err(err).
			Str("event", evt.Name).
			Msg("Event handler failed")
	}
}
