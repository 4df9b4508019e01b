package wire

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-status/internal/adapter/memory"
	"github.com/alanyang/agent-status/internal/domain/event"
)

type forgetLog struct {
	mu  sync.Mutex
	ids []string
}

func (f *forgetLog) forget(id string) {
	f.mu.Lock()
	f.ids = append(f.ids, id)
	f.mu.Unlock()
}

func (f *forgetLog) get() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

func str(s string) *string { return &s }

func TestReaper_EvictsClosedConversation(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()
	log := &forgetLog{}
	r := newReaper(20*time.Millisecond, log.forget)
	require.NoError(t, r.start(ctx, bus))

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationUpdated, "c1", str("STOPPED"))))
	assert.Equal(t, 1, r.pending())

	assert.Eventually(t, func() bool { return len(log.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"c1"}, log.get())
	assert.Equal(t, 0, r.pending())
}

func TestReaper_SignalCancelsEviction(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()
	log := &forgetLog{}
	r := newReaper(50*time.Millisecond, log.forget)
	require.NoError(t, r.start(ctx, bus))

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationUpdated, "c1", str("ARCHIVED"))))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypePausingChanged, "c1", str("true"))))
	assert.Equal(t, 1, r.pending(), "pausing does not keep a conversation alive")

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeAgentStateChanged, "c1", str("running"))))
	assert.Equal(t, 0, r.pending())

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, log.get())
}

func TestReaper_ReopenCancelsEviction(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()
	r := newReaper(time.Hour, func(string) { t.Error("must not evict") })
	require.NoError(t, r.start(ctx, bus))
	t.Cleanup(r.stop)

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationUpdated, "c1", str("STOPPED"))))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationUpdated, "c1", str("RUNNING"))))
	assert.Equal(t, 0, r.pending())
}

func TestReaper_ZeroGraceDisables(t *testing.T) {
	ctx := context.Background()
	bus := memory.NewEventBus()
	r := newReaper(0, func(string) { t.Error("must not evict") })
	require.NoError(t, r.start(ctx, bus))

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeConversationUpdated, "c1", str("STOPPED"))))
	assert.Equal(t, 0, r.pending())
}
