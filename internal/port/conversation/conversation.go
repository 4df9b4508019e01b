package conversation

import (
	"context"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
)

// Repository manages persisted conversation records.
// GetByID returns an error wrapping domainconv.ErrNotFound for unknown ids.
type Repository interface {
	GetByID(ctx context.Context, id string) (domainconv.Record, error)
	Upsert(ctx context.Context, r domainconv.Record) (domainconv.Record, error)
}
