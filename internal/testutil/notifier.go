package testutil

import (
	"context"
	"sync"

	"github.com/alanyang/agent-status/internal/domain/loading"
)

// CaptureNotifier is a LoadingNotifier that records every update it is handed.
// It is safe for concurrent use.
type CaptureNotifier struct {
	mu      sync.Mutex
	updates []loading.Update
}

func (c *CaptureNotifier) NotifyLoading(_ context.Context, u loading.Update) error {
	c.mu.Lock()
	c.updates = append(c.updates, u)
	c.mu.Unlock()
	return nil
}

// For returns the updates delivered for one conversation, oldest first.
func (c *CaptureNotifier) For(conversationID string) []loading.Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []loading.Update
	for _, u := range c.updates {
		if u.ConversationID == conversationID {
			out = append(out, u)
		}
	}
	return out
}

// Last returns the most recent update for a conversation.
func (c *CaptureNotifier) Last(conversationID string) (loading.Update, bool) {
	all := c.For(conversationID)
	if len(all) == 0 {
		return loading.Update{}, false
	}
	return all[len(all)-1], true
}

func (c *CaptureNotifier) Reset() {
	c.mu.Lock()
	c.updates = nil
	c.mu.Unlock()
}
