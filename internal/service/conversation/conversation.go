package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	"github.com/alanyang/agent-status/internal/domain/event"
	portconv "github.com/alanyang/agent-status/internal/port/conversation"
	portbus "github.com/alanyang/agent-status/internal/port/eventbus"
)

type Service struct {
	repo portconv.Repository
	bus  portbus.EventBus
}

func NewService(repo portconv.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Upsert stores the record and announces the change. Subscribers refetch the
// record themselves; the event carries only the status.
func (s *Service) Upsert(ctx context.Context, rec domainconv.Record) (domainconv.Record, error) {
	saved, err := s.repo.Upsert(ctx, rec)
	if err != nil {
		return domainconv.Record{}, fmt.Errorf("upsert conversation: %w", err)
	}

	var value *string
	if saved.Status != nil {
		v := string(*saved.Status)
		value = &v
	}
	if err := s.bus.Publish(ctx, event.New(event.TypeConversationUpdated, saved.ConversationID, value)); err != nil {
		slog.ErrorContext(ctx, "failed to publish conversation_updated", "conversation_id", saved.ConversationID, "error", err)
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domainconv.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainconv.Record{}, fmt.Errorf("get conversation: %w", err)
	}
	return rec, nil
}

// ActiveConversation implements signal.ConversationSource. Unknown ids and
// fetch failures both read as "no record".
func (s *Service) ActiveConversation(ctx context.Context, conversationID string) *domainconv.Record {
	rec, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		if !errors.Is(err, domainconv.ErrNotFound) {
			slog.WarnContext(ctx, "conversation fetch failed", "conversation_id", conversationID, "error", err)
		}
		return nil
	}
	return &rec
}
