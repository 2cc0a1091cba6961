package transcript

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/repositories"
	"github.com/seongbear/document-edit-ai/internal/repository/postgres"
)

// PostgresTurnRepository implements the TurnRepository interface using PostgreSQL
type PostgresTurnRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewTurnRepository creates a new PostgresTurnRepository
func NewTurnRepository(config *postgres.RepositoryConfig, txManager repositories.TransactionManager) repositories.TurnRepository {
	return &PostgresTurnRepository{
		pool:   config.Pool,
		tables: config.Tables,
		tx:     txManager,
		logger: config.Logger,
	}
}

// AppendTurns inserts turns in one transaction; the serial seq column records append order.
func (r *PostgresTurnRepository) AppendTurns(ctx context.Context, sessionID string, turns ...models.EditTurn) error {
	if len(turns) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Turns)

	err := r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		executor := postgres.GetExecutor(txCtx, r.pool)
		for _, turn := range turns {
			_, err := executor.Exec(txCtx, query, turn.ID, sessionID, turn.Role, turn.Content, turn.Timestamp)
			if err != nil {
				if postgres.IsUniqueViolation(err) {
					return &domain.ValidationError{Message: fmt.Sprintf("turn %s already recorded", turn.ID)}
				}
				return fmt.Errorf("insert turn: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append turns: %w", err)
	}

	r.logger.Debug("turns appended", "session_id", sessionID, "count", len(turns))
	return nil
}

// ListTurns returns the session's turns in append order
func (r *PostgresTurnRepository) ListTurns(ctx context.Context, sessionID string) ([]models.EditTurn, error) {
	query := fmt.Sprintf(`
		SELECT id, role, content, created_at
		FROM %s
		WHERE session_id = $1
		ORDER BY seq ASC
	`, r.tables.Turns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	turns := []models.EditTurn{}
	for rows.Next() {
		var turn models.EditTurn
		if err := rows.Scan(&turn.ID, &turn.Role, &turn.Content, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turn.Timestamp = turn.Timestamp.UTC()
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	return turns, nil
}

// ClearTurns deletes every turn of the session
func (r *PostgresTurnRepository) ClearTurns(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, r.tables.Turns)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("clear turns: %w", err)
	}

	r.logger.Debug("turns cleared", "session_id", sessionID, "count", tag.RowsAffected())
	return nil
}
