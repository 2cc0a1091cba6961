package memory

import (
	"context"
	"sync"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/repositories"
)

// TurnRepository keeps conversation logs in process memory.
// Used when no database is configured; logs are lost on exit.
type TurnRepository struct {
	mu    sync.RWMutex
	turns map[string][]models.EditTurn
}

// NewTurnRepository creates an empty in-memory transcript store
func NewTurnRepository() repositories.TurnRepository {
	return &TurnRepository{turns: make(map[string][]models.EditTurn)}
}

// AppendTurns appends turns in order
func (r *TurnRepository) AppendTurns(_ context.Context, sessionID string, turns ...models.EditTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.turns[sessionID] = append(r.turns[sessionID], turns...)
	return nil
}

// ListTurns returns a copy of the session's log
func (r *TurnRepository) ListTurns(_ context.Context, sessionID string) ([]models.EditTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.EditTurn{}, r.turns[sessionID]...), nil
}

// ClearTurns drops the session's log
func (r *TurnRepository) ClearTurns(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.turns, sessionID)
	return nil
}
