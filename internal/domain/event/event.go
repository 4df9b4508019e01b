package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAgentStateChanged      Type = "agent_state_changed"
	TypeWebSocketStatusChanged Type = "websocket_status_changed"
	TypeTaskStatusChanged      Type = "task_status_changed"
	TypeSubConversationChanged Type = "sub_conversation_changed"
	TypeConversationUpdated    Type = "conversation_updated"
	TypePausingChanged         Type = "pausing_changed"
	TypeStatusMessageChanged   Type = "status_message_changed"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelSignal       Channel = "signal"
	ChannelConversation Channel = "conversation"
)

var typeToChannel = map[Type]Channel{
	TypeAgentStateChanged:      ChannelSignal,
	TypeWebSocketStatusChanged: ChannelSignal,
	TypeTaskStatusChanged:      ChannelSignal,
	TypeSubConversationChanged: ChannelSignal,
	TypePausingChanged:         ChannelSignal,
	TypeStatusMessageChanged:   ChannelSignal,
	TypeConversationUpdated:    ChannelConversation,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries the conversation id and, for scalar signals, the new value.
// A nil Value means the signal was cleared. Conversation updates carry no
// value; subscribers fetch the fresh record from the repository.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Type           Type      `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Value          *string   `json:"value,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func New(eventType Type, conversationID string, value *string) Event {
	return Event{
		ID:             uuid.New(),
		Type:           eventType,
		ConversationID: conversationID,
		Value:          value,
		Timestamp:      time.Now().UTC(),
	}
}
