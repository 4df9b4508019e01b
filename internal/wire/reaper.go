package wire

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	"github.com/alanyang/agent-status/internal/domain/event"
	porteventbus "github.com/alanyang/agent-status/internal/port/eventbus"
)

// reaper evicts the in-memory state of conversations that were stopped or
// archived. Eviction waits for a grace period; any signal reported for the
// conversation meanwhile, or a move back to an open status, cancels it.
type reaper struct {
	grace  time.Duration
	forget func(conversationID string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newReaper(grace time.Duration, forget func(conversationID string)) *reaper {
	return &reaper{
		grace:  grace,
		forget: forget,
		timers: make(map[string]*time.Timer),
	}
}

// start subscribes to both channels. A zero grace disables eviction.
func (r *reaper) start(ctx context.Context, bus porteventbus.EventBus) error {
	if r.grace <= 0 {
		slog.Info("reaper: disabled")
		return nil
	}
	for _, ch := range []event.Channel{event.ChannelConversation, event.ChannelSignal} {
		if _, err := bus.Subscribe(ctx, ch, r.handle); err != nil {
			return fmt.Errorf("reaper: subscribing to %s: %w", ch, err)
		}
	}
	return nil
}

func (r *reaper) handle(ctx context.Context, e event.Event) {
	if e.Type == event.TypeConversationUpdated && e.Value != nil && domainconv.Status(*e.Value).IsClosed() {
		r.schedule(ctx, e.ConversationID)
		return
	}
	// Pausing is local to one observer and says nothing about the conversation being alive.
	if e.Type == event.TypePausingChanged {
		return
	}
	r.cancel(e.ConversationID)
}

func (r *reaper) schedule(ctx context.Context, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[conversationID]; ok {
		t.Stop()
	}
	r.timers[conversationID] = time.AfterFunc(r.grace, func() {
		r.mu.Lock()
		delete(r.timers, conversationID)
		r.mu.Unlock()

		r.forget(conversationID)
		slog.Info("reaper: conversation evicted", "conversation_id", conversationID)
	})
	slog.DebugContext(ctx, "reaper: eviction scheduled", "conversation_id", conversationID, "grace", r.grace)
}

func (r *reaper) cancel(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[conversationID]; ok {
		t.Stop()
		delete(r.timers, conversationID)
	}
}

func (r *reaper) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// stop cancels every outstanding eviction.
func (r *reaper) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
