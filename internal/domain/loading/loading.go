// Package loading decides whether a conversation's agent should be shown as
// busy. ShouldShow is the single source of truth for that judgment; Decide
// layers the caller's local pause request on top for rendering only.
package loading

import (
	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
)

// Snapshot is every signal the decision depends on, read together once per
// recomputation so that no decision mixes values from different moments.
type Snapshot struct {
	AgentState      agentstate.State
	WebSocketStatus domainconv.ConnectionStatus
	TaskStatus      *domainconv.TaskStatus

	// SubConversationTaskStatus is only consulted while SubConversationTaskID is set.
	SubConversationTaskID     *string
	SubConversationTaskStatus *domainconv.TaskStatus

	Conversation *domainconv.Record
}

// ShouldShow is the intrinsic busy judgment. It is total over its input:
// nil task statuses and a nil conversation are simply not evidence of work.
func ShouldShow(s Snapshot) bool {
	// The agent has not reported a real state yet.
	if s.AgentState == agentstate.Init {
		return true
	}
	if s.AgentState.IsWorking() {
		return true
	}
	if s.WebSocketStatus != domainconv.Connected {
		return true
	}
	if domainconv.TaskInProgress(s.TaskStatus) {
		return true
	}
	if s.SubConversationTaskID != nil && domainconv.TaskInProgress(s.SubConversationTaskStatus) {
		return true
	}
	return s.Conversation.IsStarting()
}

// Decision pairs the shared judgment with what is actually rendered.
type Decision struct {
	Computed bool `json:"computed"`
	Display  bool `json:"display"`
}

func Decide(s Snapshot, isPausing bool) Decision {
	computed := ShouldShow(s)
	return Decision{
		Computed: computed,
		Display:  computed || isPausing,
	}
}
