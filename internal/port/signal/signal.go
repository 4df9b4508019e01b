package signal

import (
	"context"

	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
)

// AgentStateSource reports the agent's latest phase for a conversation.
// Conversations the source has never heard of report agentstate.Init.
type AgentStateSource interface {
	CurAgentState(conversationID string) agentstate.State
}

// WebSocketStatusSource reports the health of the runtime link for a conversation.
type WebSocketStatusSource interface {
	WebSocketStatus(conversationID string) domainconv.ConnectionStatus
}

// TaskPoller reports the last polled start-task status of a conversation, or nil.
type TaskPoller interface {
	TaskStatus(conversationID string) *domainconv.TaskStatus
}

// SubConversationTaskPoller reports the last polled status of a sub-conversation
// task, keyed by the task id, or nil.
type SubConversationTaskPoller interface {
	SubConversationTaskStatus(taskID string) *domainconv.TaskStatus
}

// ConversationSource returns the active conversation record, or nil when none
// is known. Fetch failures surface as nil, never as an error.
type ConversationSource interface {
	ActiveConversation(ctx context.Context, conversationID string) *domainconv.Record
}

// Recorder is the write side of the scalar signal sources.
type Recorder interface {
	SetAgentState(conversationID string, s agentstate.State)
	SetWebSocketStatus(conversationID string, s domainconv.ConnectionStatus)
	SetTaskStatus(conversationID string, s *domainconv.TaskStatus)
	SetSubConversationTaskStatus(taskID string, s *domainconv.TaskStatus)
	Forget(conversationID string)
}

// Sources groups every provider a loading decision reads from.
type Sources struct {
	AgentState    AgentStateSource
	WebSocket     WebSocketStatusSource
	Tasks         TaskPoller
	SubTasks      SubConversationTaskPoller
	Conversations ConversationSource
}
