package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

func TestTurnRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTurnRepository()
	now := time.Now().UTC()

	turns, err := repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)

	require.NoError(t, repo.AppendTurns(ctx, "s1",
		models.EditTurn{ID: "1", Role: models.RoleUser, Content: "shorter", Timestamp: now},
		models.EditTurn{ID: "2", Role: models.RoleAssistant, Content: "done", Timestamp: now.Add(time.Microsecond)},
	))
	require.NoError(t, repo.AppendTurns(ctx, "s2", models.EditTurn{ID: "x", Role: models.RoleUser}))

	turns, err = repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "1", turns[0].ID)
	assert.Equal(t, "2", turns[1].ID)

	// callers get a copy
	turns[0].Content = "mutated"
	again, err := repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "shorter", again[0].Content)

	require.NoError(t, repo.ClearTurns(ctx, "s1"))
	turns, err = repo.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)

	other, err := repo.ListTurns(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
