package notifier

import (
	"context"

	"github.com/alanyang/agent-status/internal/domain/loading"
)

// LoadingNotifier pushes a conversation's new loading decision to whoever is
// watching it (browser tabs, terminal clients, MCP sessions).
type LoadingNotifier interface {
	NotifyLoading(ctx context.Context, u loading.Update) error
}
