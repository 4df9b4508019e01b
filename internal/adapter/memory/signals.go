package memory

import (
	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
)

// Signals holds the latest value pushed by each external signal provider.
// It implements every scalar source in port/signal plus signal.Recorder.
type Signals struct {
	agentStates *Cache[agentstate.State]
	webSockets  *Cache[domainconv.ConnectionStatus]
	tasks       *Cache[domainconv.TaskStatus]
	subTasks    *Cache[domainconv.TaskStatus]
}

func NewSignals() *Signals {
	return &Signals{
		agentStates: NewCache[agentstate.State](),
		webSockets:  NewCache[domainconv.ConnectionStatus](),
		tasks:       NewCache[domainconv.TaskStatus](),
		subTasks:    NewCache[domainconv.TaskStatus](),
	}
}

// CurAgentState is agentstate.Init until the agent reports.
func (s *Signals) CurAgentState(conversationID string) agentstate.State {
	st, err := s.agentStates.Get(conversationID)
	if err != nil {
		return agentstate.Init
	}
	return st
}

// WebSocketStatus is Connecting until the link reports.
func (s *Signals) WebSocketStatus(conversationID string) domainconv.ConnectionStatus {
	st, err := s.webSockets.Get(conversationID)
	if err != nil {
		return domainconv.Connecting
	}
	return st
}

func (s *Signals) TaskStatus(conversationID string) *domainconv.TaskStatus {
	return lookup(s.tasks, conversationID)
}

func (s *Signals) SubConversationTaskStatus(taskID string) *domainconv.TaskStatus {
	return lookup(s.subTasks, taskID)
}

func (s *Signals) SetAgentState(conversationID string, st agentstate.State) {
	s.agentStates.Set(conversationID, st, 0)
}

func (s *Signals) SetWebSocketStatus(conversationID string, st domainconv.ConnectionStatus) {
	s.webSockets.Set(conversationID, st, 0)
}

func (s *Signals) SetTaskStatus(conversationID string, st *domainconv.TaskStatus) {
	store(s.tasks, conversationID, st)
}

func (s *Signals) SetSubConversationTaskStatus(taskID string, st *domainconv.TaskStatus) {
	store(s.subTasks, taskID, st)
}

// Forget drops the per-conversation signals. Sub-conversation task statuses are
// keyed by task id and are cleared by the caller through SetSubConversationTaskStatus.
func (s *Signals) Forget(conversationID string) {
	s.agentStates.Invalidate(conversationID)
	s.webSockets.Invalidate(conversationID)
	s.tasks.Invalidate(conversationID)
}

func lookup(c *Cache[domainconv.TaskStatus], key string) *domainconv.TaskStatus {
	st, err := c.Get(key)
	if err != nil {
		return nil
	}
	return &st
}

func store(c *Cache[domainconv.TaskStatus], key string, st *domainconv.TaskStatus) {
	if st == nil {
		c.Invalidate(key)
		return
	}
	c.Set(key, *st, 0)
}
