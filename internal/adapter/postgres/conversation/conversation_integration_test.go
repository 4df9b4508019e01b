//go:build integration

package conversation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgconv "github.com/alanyang/agent-status/internal/adapter/postgres/conversation"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	"github.com/alanyang/agent-status/internal/testutil"
)

func TestConversationRepo_Upsert(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := pgconv.New(pool)

	id := "conv-" + uuid.New().String()[:8]
	starting := domainconv.StatusStarting
	rs := domainconv.RuntimeStarting

	created, err := repo.Upsert(ctx, domainconv.New(id, &starting, &rs))
	require.NoError(t, err)
	assert.Equal(t, id, created.ConversationID)
	require.NotNil(t, created.RuntimeStatus)
	assert.Equal(t, rs, *created.RuntimeStatus)

	running := domainconv.StatusRunning
	updated, err := repo.Upsert(ctx, domainconv.New(id, &running, nil))
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, domainconv.StatusRunning, *updated.Status)
	assert.Nil(t, updated.RuntimeStatus, "upsert replaces the whole record")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestConversationRepo_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		ctx := context.Background()
		repo := pgconv.New(pool)

		id := "conv-" + uuid.New().String()[:8]
		stopped := domainconv.StatusStopped
		_, err := repo.Upsert(ctx, domainconv.New(id, &stopped, nil))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.IsClosed())
	})

	t.Run("not found returns ErrNotFound", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		repo := pgconv.New(pool)

		_, err := repo.GetByID(context.Background(), "missing-"+uuid.New().String())
		assert.ErrorIs(t, err, domainconv.ErrNotFound)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		pool := testutil.SetupTestDB(t)
		repo := pgconv.New(pool)

		_, err := repo.Upsert(context.Background(), domainconv.Record{})
		assert.Error(t, err)
	})
}
