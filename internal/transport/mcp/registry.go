package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/agent-status/internal/domain/loading"
)

const notificationMethod = "notifications/message"

// SessionRegistry tracks which conversations each MCP session watches.
// It implements port/notifier.LoadingNotifier.
//
// [SRP] Session storage and notification dispatch only.
type SessionRegistry struct {
	mu       sync.RWMutex
	watching map[string]map[string]bool // sessionID → conversation ids

	// mcpSrv is set after the MCP server is constructed (avoids circular init dependency).
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		watching: make(map[string]map[string]bool),
	}
}

// SetMCPServer injects the mcp-go server after construction.
func (r *SessionRegistry) SetMCPServer(s *mcpserver.MCPServer) {
	r.mcpMu.Lock()
	r.mcpSrv = s
	r.mcpMu.Unlock()
}

// Watch subscribes a session to a conversation's loading updates.
func (r *SessionRegistry) Watch(sessionID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watching[sessionID] == nil {
		r.watching[sessionID] = make(map[string]bool)
	}
	r.watching[sessionID][conversationID] = true
}

// Unregister forgets a closed session. Returns how many conversations it watched.
func (r *SessionRegistry) Unregister(sessionID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	convs, ok := r.watching[sessionID]
	if !ok {
		return 0, false
	}
	delete(r.watching, sessionID)
	return len(convs), true
}

// IsWatching reports whether the session receives updates for the conversation.
func (r *SessionRegistry) IsWatching(sessionID, conversationID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.watching[sessionID][conversationID]
}

// NotifyLoading implements port/notifier.LoadingNotifier.
func (r *SessionRegistry) NotifyLoading(_ context.Context, u loading.Update) error {
	r.mu.RLock()
	targets := make([]string, 0)
	for sessionID, convs := range r.watching {
		if convs[u.ConversationID] {
			targets = append(targets, sessionID)
		}
	}
	r.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	r.mcpMu.RLock()
	srv := r.mcpSrv
	r.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params, err := toParams(u)
	if err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}

	var lastErr error
	for _, sessionID := range targets {
		if err := srv.SendNotificationToSpecificClient(sessionID, notificationMethod, params); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func toParams(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return map[string]any{"data": v}, nil
	}
	return params, nil
}
