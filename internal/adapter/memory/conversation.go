package memory

import (
	"context"
	"fmt"
	"time"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
)

// ConversationRepository keeps conversation records in process memory.
// Used when no DATABASE_URL is configured.
type ConversationRepository struct {
	records *Cache[domainconv.Record]
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{records: NewCache[domainconv.Record]()}
}

func (r *ConversationRepository) GetByID(_ context.Context, id string) (domainconv.Record, error) {
	rec, err := r.records.Get(id)
	if err != nil {
		return domainconv.Record{}, fmt.Errorf("conversation %s: %w", id, domainconv.ErrNotFound)
	}
	return rec, nil
}

func (r *ConversationRepository) Upsert(_ context.Context, rec domainconv.Record) (domainconv.Record, error) {
	if rec.ConversationID == "" {
		return domainconv.Record{}, fmt.Errorf("upserting conversation: empty id")
	}
	rec.UpdatedAt = time.Now().UTC()
	r.records.Set(rec.ConversationID, rec, 0)
	return rec, nil
}
