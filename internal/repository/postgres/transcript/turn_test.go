package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/repositories"
	"github.com/seongbear/document-edit-ai/internal/repository/postgres"
)

// newTestRepository connects to TEST_DATABASE_URL and creates a throwaway table.
func newTestRepository(t *testing.T) repositories.TurnRepository {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	cfg := &postgres.RepositoryConfig{Pool: pool, Tables: postgres.NewTableNames(prefix), Logger: logger}
	require.NoError(t, postgres.EnsureSchema(ctx, cfg))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+cfg.Tables.Turns)
	})

	return NewTurnRepository(cfg, postgres.NewTransactionManager(pool, logger))
}

func turn(role, content string, at time.Time) models.EditTurn {
	return models.EditTurn{ID: uuid.NewString(), Role: role, Content: content, Timestamp: at}
}

func TestPostgresTurnRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	empty, err := repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := turn(models.RoleUser, "make it shorter", at)
	second := turn(models.RoleAssistant, "Shortened.", at)
	require.NoError(t, repo.AppendTurns(ctx, "s1", first, second))
	require.NoError(t, repo.AppendTurns(ctx, "s2", turn(models.RoleUser, "other", at)))

	turns, err := repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, first.ID, turns[0].ID)
	assert.Equal(t, second.ID, turns[1].ID)
	assert.Equal(t, "Shortened.", turns[1].Content)
	assert.True(t, turns[0].Timestamp.Equal(at))

	require.NoError(t, repo.ClearTurns(ctx, "s1"))
	turns, err = repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)

	others, err := repo.ListTurns(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestPostgresTurnRepository_AppendIsAllOrNothing(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Now().UTC()

	existing := turn(models.RoleUser, "first", at)
	require.NoError(t, repo.AppendTurns(ctx, "s1", existing))

	err := repo.AppendTurns(ctx, "s1", turn(models.RoleUser, "new", at), existing)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	turns, err := repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}
