package memory

import (
	"context"
	"sync"

	"github.com/alanyang/agent-status/internal/domain/event"
	porteventbus "github.com/alanyang/agent-status/internal/port/eventbus"
)

// EventBus is an in-process implementation of port/eventbus.EventBus.
// Publish delivers synchronously to every live subscriber of the event's channel.
type EventBus struct {
	mu   sync.RWMutex
	subs map[event.Channel]map[*subscription]porteventbus.Handler
}

func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[event.Channel]map[*subscription]porteventbus.Handler),
	}
}

func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	ch := event.ChannelFor(e.Type)

	eb.mu.RLock()
	handlers := make([]porteventbus.Handler, 0, len(eb.subs[ch]))
	for _, h := range eb.subs[ch] {
		handlers = append(handlers, h)
	}
	eb.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	return nil
}

// Subscribe registers handler until Unsubscribe is called or ctx is done.
func (eb *EventBus) Subscribe(ctx context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	sub := &subscription{done: make(chan struct{})}
	sub.remove = func() {
		eb.mu.Lock()
		delete(eb.subs[ch], sub)
		eb.mu.Unlock()
	}

	eb.mu.Lock()
	if eb.subs[ch] == nil {
		eb.subs[ch] = make(map[*subscription]porteventbus.Handler)
	}
	eb.subs[ch][sub] = handler
	eb.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()

	return sub, nil
}

type subscription struct {
	once   sync.Once
	remove func()
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.remove()
		close(s.done)
	})
}
