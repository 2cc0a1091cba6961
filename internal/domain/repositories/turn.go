package repositories

import (
	"context"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// TurnRepository persists the conversation log of a session.
// The log is append-only; Clear is the only way to remove turns.
type TurnRepository interface {
	// AppendTurns appends turns in order. All turns are stored or none are.
	AppendTurns(ctx context.Context, sessionID string, turns ...models.EditTurn) error

	// ListTurns returns turns in append order, empty if none
	ListTurns(ctx context.Context, sessionID string) ([]models.EditTurn, error)

	// ClearTurns removes every turn of the session
	ClearTurns(ctx context.Context, sessionID string) error
}
