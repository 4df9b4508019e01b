package loading

import (
	"context"

	portstore "github.com/alanyang/agent-status/internal/port/store"
)

// Synchronizer pushes the computed loading flag into shared stores. It fires on
// its first call and afterwards only when the computed value changes, and it
// never reads the stores back to decide.
//
// A Synchronizer is owned by a single Monitor and relies on the monitor's lock.
type Synchronizer struct {
	targets []portstore.LoadingFlagSetter

	synced bool
	last   bool
}

// NewSynchronizer writes to targets in order; the authoritative scope store goes first.
func NewSynchronizer(targets ...portstore.LoadingFlagSetter) *Synchronizer {
	return &Synchronizer{targets: targets}
}

// Sync reports whether the stores were written.
func (s *Synchronizer) Sync(ctx context.Context, conversationID string, computed bool) bool {
	if s.synced && s.last == computed {
		return false
	}
	for _, t := range s.targets {
		t.SetShouldShownAgentLoading(ctx, conversationID, computed)
	}
	s.synced = true
	s.last = computed
	return true
}
