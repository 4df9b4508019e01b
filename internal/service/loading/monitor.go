package loading

import (
	"context"
	"log/slog"
	"sync"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	domainloading "github.com/alanyang/agent-status/internal/domain/loading"
	portnotifier "github.com/alanyang/agent-status/internal/port/notifier"
	portsignal "github.com/alanyang/agent-status/internal/port/signal"
	portstore "github.com/alanyang/agent-status/internal/port/store"
)

// Monitor is the derived loading state of one conversation. Every recomputation
// reads all sources once into a Snapshot, decides, and hands the computed flag
// to the synchronizer. The caller-local pause flag lives here and only ever
// affects Display.
type Monitor struct {
	conversationID string
	sources        portsignal.Sources
	scope          portstore.ConversationScopeStore
	synchronizer   *Synchronizer
	notifier       portnotifier.LoadingNotifier

	mu        sync.Mutex
	isPausing bool
	decided   bool
	snapshot  domainloading.Snapshot
	decision  domainloading.Decision
}

func NewMonitor(
	conversationID string,
	sources portsignal.Sources,
	scope portstore.ConversationScopeStore,
	synchronizer *Synchronizer,
	notifier portnotifier.LoadingNotifier,
) *Monitor {
	return &Monitor{
		conversationID: conversationID,
		sources:        sources,
		scope:          scope,
		synchronizer:   synchronizer,
		notifier:       notifier,
	}
}

// Recompute re-reads every signal and returns the fresh decision.
func (m *Monitor) Recompute(ctx context.Context) domainloading.Decision {
	m.mu.Lock()
	update, changed := m.recomputeLocked(ctx)
	m.mu.Unlock()

	if changed {
		m.notify(ctx, update)
	}
	return update.Decision
}

// SetPausing changes the local pause flag. Shared stores are not touched.
func (m *Monitor) SetPausing(ctx context.Context, pausing bool) domainloading.Decision {
	m.mu.Lock()
	m.isPausing = pausing

	var (
		update  domainloading.Update
		changed bool
	)
	if !m.decided {
		update, changed = m.recomputeLocked(ctx)
	} else {
		next := domainloading.Decision{
			Computed: m.decision.Computed,
			Display:  m.decision.Computed || pausing,
		}
		changed = next != m.decision
		m.decision = next
		update = m.updateLocked()
	}
	m.mu.Unlock()

	if changed {
		m.notify(ctx, update)
	}
	return update.Decision
}

// Decision returns the last decision, computing one if none exists yet.
func (m *Monitor) Decision(ctx context.Context) domainloading.Decision {
	m.mu.Lock()
	if m.decided {
		d := m.decision
		m.mu.Unlock()
		return d
	}
	m.mu.Unlock()
	return m.Recompute(ctx)
}

// View renders the gate for a caller with its own disabled flag.
func (m *Monitor) View(ctx context.Context, disabled bool) domainloading.View {
	d := m.Decision(ctx)

	m.mu.Lock()
	state := m.snapshot.AgentState
	m.mu.Unlock()

	return domainloading.Render(d, state, disabled)
}

// Update returns the current decision with its default rendering.
func (m *Monitor) Update(ctx context.Context) domainloading.Update {
	m.Decision(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked()
}

func (m *Monitor) IsPausing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isPausing
}

func (m *Monitor) recomputeLocked(ctx context.Context) (domainloading.Update, bool) {
	snap := m.assemble(ctx)
	d := domainloading.Decide(snap, m.isPausing)

	if m.synchronizer.Sync(ctx, m.conversationID, d.Computed) {
		slog.DebugContext(ctx, "loading: shared flag synced", "conversation_id", m.conversationID, "computed", d.Computed)
	}

	changed := !m.decided || d != m.decision || snap.AgentState != m.snapshot.AgentState
	m.snapshot = snap
	m.decision = d
	m.decided = true
	return m.updateLocked(), changed
}

// assemble reads every source exactly once.
func (m *Monitor) assemble(ctx context.Context) domainloading.Snapshot {
	id := m.conversationID

	subID := m.scope.SubConversationTaskID(id)
	var subStatus *domainconv.TaskStatus
	if subID != nil {
		subStatus = m.sources.SubTasks.SubConversationTaskStatus(*subID)
	}

	return domainloading.Snapshot{
		AgentState:                m.sources.AgentState.CurAgentState(id),
		WebSocketStatus:           m.sources.WebSocket.WebSocketStatus(id),
		TaskStatus:                m.sources.Tasks.TaskStatus(id),
		SubConversationTaskID:     subID,
		SubConversationTaskStatus: subStatus,
		Conversation:              m.sources.Conversations.ActiveConversation(ctx, id),
	}
}

func (m *Monitor) updateLocked() domainloading.Update {
	return domainloading.Update{
		ConversationID: m.conversationID,
		Decision:       m.decision,
		View:           domainloading.Render(m.decision, m.snapshot.AgentState, false),
	}
}

func (m *Monitor) notify(ctx context.Context, u domainloading.Update) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.NotifyLoading(ctx, u); err != nil {
		slog.ErrorContext(ctx, "loading: failed to notify observers", "conversation_id", m.conversationID, "error", err)
	}
}
