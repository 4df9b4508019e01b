package mocks

//go:generate mockgen -destination=eventbus.go -package=mocks github.com/alanyang/agent-status/internal/port/eventbus EventBus
//go:generate mockgen -destination=conversation.go -package=mocks github.com/alanyang/agent-status/internal/port/conversation Repository
//go:generate mockgen -destination=notifier.go -package=mocks github.com/alanyang/agent-status/internal/port/notifier LoadingNotifier
//go:generate mockgen -destination=store.go -package=mocks github.com/alanyang/agent-status/internal/port/store LoadingFlagSetter
//go:generate mockgen -destination=signal.go -package=mocks github.com/alanyang/agent-status/internal/port/signal ConversationSource
