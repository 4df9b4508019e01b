package loading

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	"github.com/alanyang/agent-status/internal/domain/event"
	domainloading "github.com/alanyang/agent-status/internal/domain/loading"
	portbus "github.com/alanyang/agent-status/internal/port/eventbus"
	portnotifier "github.com/alanyang/agent-status/internal/port/notifier"
	portsignal "github.com/alanyang/agent-status/internal/port/signal"
	portstore "github.com/alanyang/agent-status/internal/port/store"
)

// Service owns one Monitor per conversation and is the entry point for
// signal providers reporting new values.
// [SRP] Signal intake and recomputation only. Persistence of conversation
// records belongs to the conversation service.
type Service struct {
	sources  portsignal.Sources
	recorder portsignal.Recorder
	scope    portstore.ConversationScopeStore
	status   portstore.StatusStore
	bus      portbus.EventBus
	notifier portnotifier.LoadingNotifier

	mu       sync.Mutex
	monitors map[string]*Monitor
}

func NewService(
	sources portsignal.Sources,
	recorder portsignal.Recorder,
	scope portstore.ConversationScopeStore,
	status portstore.StatusStore,
	bus portbus.EventBus,
	notifier portnotifier.LoadingNotifier,
) *Service {
	return &Service{
		sources:  sources,
		recorder: recorder,
		scope:    scope,
		status:   status,
		bus:      bus,
		notifier: notifier,
		monitors: make(map[string]*Monitor),
	}
}

func (s *Service) monitor(conversationID string) *Monitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.monitors[conversationID]
	if !ok {
		m = NewMonitor(conversationID, s.sources, s.scope, NewSynchronizer(s.scope, s.status), s.notifier)
		s.monitors[conversationID] = m
	}
	return m
}

func (s *Service) ReportAgentState(ctx context.Context, conversationID string, state agentstate.State) domainloading.Decision {
	s.recorder.SetAgentState(conversationID, state)
	d := s.monitor(conversationID).Recompute(ctx)
	s.publish(ctx, event.TypeAgentStateChanged, conversationID, ptr(string(state)))
	return d
}

func (s *Service) ReportWebSocketStatus(ctx context.Context, conversationID string, status domainconv.ConnectionStatus) domainloading.Decision {
	s.recorder.SetWebSocketStatus(conversationID, status)
	d := s.monitor(conversationID).Recompute(ctx)
	s.publish(ctx, event.TypeWebSocketStatusChanged, conversationID, ptr(string(status)))
	return d
}

// ReportTaskStatus records the latest primary task poll. A nil status means no task.
func (s *Service) ReportTaskStatus(ctx context.Context, conversationID string, status *domainconv.TaskStatus) domainloading.Decision {
	s.recorder.SetTaskStatus(conversationID, status)
	d := s.monitor(conversationID).Recompute(ctx)
	s.publish(ctx, event.TypeTaskStatusChanged, conversationID, taskValue(status))
	return d
}

// ReportSubConversationTask sets the conversation's sub-conversation task id and
// its latest polled status. A nil taskID detaches the sub-conversation; the
// previous task's status is dropped when the id changes.
func (s *Service) ReportSubConversationTask(ctx context.Context, conversationID string, taskID *string, status *domainconv.TaskStatus) domainloading.Decision {
	if prev := s.scope.SubConversationTaskID(conversationID); prev != nil && (taskID == nil || *prev != *taskID) {
		s.recorder.SetSubConversationTaskStatus(*prev, nil)
	}
	s.scope.SetSubConversationTaskID(ctx, conversationID, taskID)
	if taskID != nil {
		s.recorder.SetSubConversationTaskStatus(*taskID, status)
	}

	d := s.monitor(conversationID).Recompute(ctx)
	s.publish(ctx, event.TypeSubConversationChanged, conversationID, taskValue(status))
	return d
}

// ConversationChanged re-reads the persisted record after it was updated elsewhere.
func (s *Service) ConversationChanged(ctx context.Context, conversationID string) domainloading.Decision {
	return s.monitor(conversationID).Recompute(ctx)
}

// SetPausing updates the caller-local pause flag for a conversation.
func (s *Service) SetPausing(ctx context.Context, conversationID string, pausing bool) domainloading.Decision {
	d := s.monitor(conversationID).SetPausing(ctx, pausing)
	v := "false"
	if pausing {
		v = "true"
	}
	s.publish(ctx, event.TypePausingChanged, conversationID, &v)
	return d
}

func (s *Service) SetStatusMessage(ctx context.Context, conversationID string, msg *string) {
	s.status.SetCurStatusMessage(ctx, conversationID, msg)
	s.publish(ctx, event.TypeStatusMessageChanged, conversationID, msg)
}

func (s *Service) StatusMessage(conversationID string) *string {
	return s.status.CurStatusMessage(conversationID)
}

func (s *Service) Decision(ctx context.Context, conversationID string) domainloading.Decision {
	return s.monitor(conversationID).Decision(ctx)
}

func (s *Service) View(ctx context.Context, conversationID string, disabled bool) domainloading.View {
	return s.monitor(conversationID).View(ctx, disabled)
}

// Update is the payload a newly attached observer should render first.
func (s *Service) Update(ctx context.Context, conversationID string) domainloading.Update {
	return s.monitor(conversationID).Update(ctx)
}

// Forget drops every piece of state held for a conversation.
func (s *Service) Forget(conversationID string) {
	s.mu.Lock()
	delete(s.monitors, conversationID)
	s.mu.Unlock()

	if taskID := s.scope.SubConversationTaskID(conversationID); taskID != nil {
		s.recorder.SetSubConversationTaskStatus(*taskID, nil)
	}
	s.recorder.Forget(conversationID)
	s.scope.Forget(conversationID)
	s.status.Forget(conversationID)
}

// Conversations lists the conversations with a live monitor, sorted.
func (s *Service) Conversations() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.monitors))
	for id := range s.monitors {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Strings(ids)
	return ids
}

// Subscribe recomputes a conversation whenever its persisted record changes.
func (s *Service) Subscribe(ctx context.Context) (portbus.Subscription, error) {
	return s.bus.Subscribe(ctx, event.ChannelConversation, func(ctx context.Context, e event.Event) {
		if e.Type != event.TypeConversationUpdated {
			return
		}
		s.ConversationChanged(ctx, e.ConversationID)
	})
}

func (s *Service) publish(ctx context.Context, t event.Type, conversationID string, value *string) {
	if err := s.bus.Publish(ctx, event.New(t, conversationID, value)); err != nil {
		slog.ErrorContext(ctx, "failed to publish signal event", "type", t, "conversation_id", conversationID, "error", err)
	}
}

func taskValue(status *domainconv.TaskStatus) *string {
	if status == nil {
		return nil
	}
	return ptr(string(*status))
}

func ptr(s string) *string { return &s }
