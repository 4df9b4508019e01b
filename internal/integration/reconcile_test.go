//go:build integration

package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-status/internal/adapter/memory"
	pgconv "github.com/alanyang/agent-status/internal/adapter/postgres/conversation"
	pgeventbus "github.com/alanyang/agent-status/internal/adapter/postgres/eventbus"
	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	portsignal "github.com/alanyang/agent-status/internal/port/signal"
	convsvc "github.com/alanyang/agent-status/internal/service/conversation"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"
	"github.com/alanyang/agent-status/internal/testutil"
)

// ── test harness ──────────────────────────────────────────────────────────────

// instance is one server process: its own in-memory signal state on top of
// the shared Postgres repository and event bus.
type instance struct {
	loading       *loadingsvc.Service
	conversations *convsvc.Service
	signals       *memory.Signals
	scope         *memory.ScopeStore
	notifier      *testutil.CaptureNotifier
}

func newInstance(t *testing.T, ctx context.Context, repo *pgconv.Repository, bus *pgeventbus.EventBus) *instance {
	t.Helper()
	in := &instance{
		conversations: convsvc.NewService(repo, bus),
		signals:       memory.NewSignals(),
		scope:         memory.NewScopeStore(),
		notifier:      &testutil.CaptureNotifier{},
	}
	sources := portsignal.Sources{
		AgentState:    in.signals,
		WebSocket:     in.signals,
		Tasks:         in.signals,
		SubTasks:      in.signals,
		Conversations: in.conversations,
	}
	in.loading = loadingsvc.NewService(sources, in.signals, in.scope, memory.NewStatusStore(), bus, in.notifier)

	sub, err := in.loading.Subscribe(ctx)
	require.NoError(t, err)
	t.Cleanup(sub.Unsubscribe)
	return in
}

func newConversationID() string {
	return "it-" + uuid.New().String()[:8]
}

// ── Cross-instance reconciliation ─────────────────────────────────────────────

func TestConversationUpdateReachesOtherInstance(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := pgconv.New(pool)
	bus := pgeventbus.New(pool)
	t.Cleanup(bus.Close)

	writer := newInstance(t, ctx, repo, bus)
	watcher := newInstance(t, ctx, repo, bus)

	id := newConversationID()
	watcher.loading.ReportWebSocketStatus(ctx, id, domainconv.Connected)
	watcher.loading.ReportAgentState(ctx, id, agentstate.AwaitingUserInput)
	require.False(t, watcher.scope.ShouldShownAgentLoading(id))

	starting := domainconv.StatusStarting
	_, err := writer.conversations.Upsert(ctx, domainconv.New(id, &starting, nil))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return watcher.scope.ShouldShownAgentLoading(id)
	}, 5*time.Second, 20*time.Millisecond, "watcher recomputes from the persisted record")

	last, ok := watcher.notifier.Last(id)
	require.True(t, ok)
	assert.True(t, last.Decision.Computed)
	assert.True(t, last.View.Loading)

	running := domainconv.StatusRunning
	_, err = writer.conversations.Upsert(ctx, domainconv.New(id, &running, nil))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return !watcher.scope.ShouldShownAgentLoading(id)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPausingStaysLocalToInstance(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := pgconv.New(pool)
	bus := pgeventbus.New(pool)
	t.Cleanup(bus.Close)

	a := newInstance(t, ctx, repo, bus)
	b := newInstance(t, ctx, repo, bus)

	id := newConversationID()
	for _, in := range []*instance{a, b} {
		in.loading.ReportWebSocketStatus(ctx, id, domainconv.Connected)
		in.loading.ReportAgentState(ctx, id, agentstate.AwaitingUserInput)
	}

	got := a.loading.SetPausing(ctx, id, true)
	assert.True(t, got.Display)
	assert.False(t, got.Computed)
	assert.False(t, a.scope.ShouldShownAgentLoading(id))
	assert.False(t, b.loading.Decision(ctx, id).Display, "another instance never sees the pause")
}
