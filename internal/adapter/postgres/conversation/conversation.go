package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	portconv "github.com/alanyang/agent-status/internal/port/conversation"
)

var _ portconv.Repository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id string) (domainconv.Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT conversation_id, status, runtime_status, updated_at FROM conversations WHERE conversation_id = $1`, id,
	)

	out, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainconv.Record{}, fmt.Errorf("get conversation %s: %w", id, domainconv.ErrNotFound)
		}
		return domainconv.Record{}, fmt.Errorf("get conversation: %w", err)
	}
	return out, nil
}

func (r *Repository) Upsert(ctx context.Context, rec domainconv.Record) (domainconv.Record, error) {
	if rec.ConversationID == "" {
		return domainconv.Record{}, fmt.Errorf("upsert conversation: empty id")
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO conversations (conversation_id, status, runtime_status, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (conversation_id) DO UPDATE
		 SET status = EXCLUDED.status, runtime_status = EXCLUDED.runtime_status, updated_at = NOW()
		 RETURNING conversation_id, status, runtime_status, updated_at`,
		rec.ConversationID, nullable(rec.Status), nullable(rec.RuntimeStatus),
	)

	out, err := scanRecord(row)
	if err != nil {
		return domainconv.Record{}, fmt.Errorf("upsert conversation: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (domainconv.Record, error) {
	var (
		out           domainconv.Record
		status        *string
		runtimeStatus *string
	)
	if err := row.Scan(&out.ConversationID, &status, &runtimeStatus, &out.UpdatedAt); err != nil {
		return domainconv.Record{}, err
	}
	if status != nil {
		s := domainconv.Status(*status)
		out.Status = &s
	}
	if runtimeStatus != nil {
		rs := domainconv.RuntimeStatus(*runtimeStatus)
		out.RuntimeStatus = &rs
	}
	out.UpdatedAt = out.UpdatedAt.UTC()
	return out, nil
}

func nullable[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
