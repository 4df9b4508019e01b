package store

import "context"

// LoadingFlagSetter is the only way the loading synchronizer touches shared state.
type LoadingFlagSetter interface {
	SetShouldShownAgentLoading(ctx context.Context, conversationID string, v bool)
}

// LoadingFlag exposes the shared flag to sibling readers.
type LoadingFlag interface {
	LoadingFlagSetter
	ShouldShownAgentLoading(conversationID string) bool
}

// ConversationScopeStore is the authoritative shared state for a conversation.
type ConversationScopeStore interface {
	LoadingFlag
	SubConversationTaskID(conversationID string) *string
	SetSubConversationTaskID(ctx context.Context, conversationID string, taskID *string)
	Forget(conversationID string)
}

// StatusStore holds the user-facing status line for a conversation.
type StatusStore interface {
	LoadingFlag
	CurStatusMessage(conversationID string) *string
	SetCurStatusMessage(ctx context.Context, conversationID string, msg *string)
	Forget(conversationID string)
}
