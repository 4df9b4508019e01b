package memory

import (
	"context"
	"log/slog"
	"sync"
)

type scopeEntry struct {
	subConversationTaskID *string
	shouldShowLoading     bool
}

// ScopeStore is the in-process conversation-scope store. Writes are last-write-wins.
type ScopeStore struct {
	mu      sync.RWMutex
	entries map[string]scopeEntry
}

func NewScopeStore() *ScopeStore {
	return &ScopeStore{entries: make(map[string]scopeEntry)}
}

func (s *ScopeStore) SubConversationTaskID(conversationID string) *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := s.entries[conversationID].subConversationTaskID
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (s *ScopeStore) SetSubConversationTaskID(ctx context.Context, conversationID string, taskID *string) {
	var stored *string
	if taskID != nil {
		v := *taskID
		stored = &v
	}
	s.mu.Lock()
	e := s.entries[conversationID]
	e.subConversationTaskID = stored
	s.entries[conversationID] = e
	s.mu.Unlock()
	slog.DebugContext(ctx, "scope store: sub-conversation task id set", "conversation_id", conversationID, "cleared", taskID == nil)
}

func (s *ScopeStore) ShouldShownAgentLoading(conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[conversationID].shouldShowLoading
}

func (s *ScopeStore) SetShouldShownAgentLoading(ctx context.Context, conversationID string, v bool) {
	s.mu.Lock()
	e := s.entries[conversationID]
	e.shouldShowLoading = v
	s.entries[conversationID] = e
	s.mu.Unlock()
	slog.DebugContext(ctx, "scope store: loading flag set", "conversation_id", conversationID, "value", v)
}

func (s *ScopeStore) Forget(conversationID string) {
	s.mu.Lock()
	delete(s.entries, conversationID)
	s.mu.Unlock()
}

type statusEntry struct {
	message           *string
	shouldShowLoading bool
}

// StatusStore is the in-process status-line store.
type StatusStore struct {
	mu      sync.RWMutex
	entries map[string]statusEntry
}

func NewStatusStore() *StatusStore {
	return &StatusStore{entries: make(map[string]statusEntry)}
}

func (s *StatusStore) CurStatusMessage(conversationID string) *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg := s.entries[conversationID].message
	if msg == nil {
		return nil
	}
	v := *msg
	return &v
}

func (s *StatusStore) SetCurStatusMessage(_ context.Context, conversationID string, msg *string) {
	var stored *string
	if msg != nil {
		v := *msg
		stored = &v
	}
	s.mu.Lock()
	e := s.entries[conversationID]
	e.message = stored
	s.entries[conversationID] = e
	s.mu.Unlock()
}

func (s *StatusStore) ShouldShownAgentLoading(conversationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[conversationID].shouldShowLoading
}

func (s *StatusStore) SetShouldShownAgentLoading(_ context.Context, conversationID string, v bool) {
	s.mu.Lock()
	e := s.entries[conversationID]
	e.shouldShowLoading = v
	s.entries[conversationID] = e
	s.mu.Unlock()
}

func (s *StatusStore) Forget(conversationID string) {
	s.mu.Lock()
	delete(s.entries, conversationID)
	s.mu.Unlock()
}
