package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema creates the transcript table and its index if missing.
func EnsureSchema(ctx context.Context, cfg *RepositoryConfig) error {
	createTurns := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`, cfg.Tables.Turns)
	if _, err := cfg.Pool.Exec(ctx, createTurns); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Tables.Turns, err)
	}

	createIndex := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_session_idx ON %s (session_id, seq)`,
		cfg.Tables.Turns, cfg.Tables.Turns)
	if _, err := cfg.Pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("create %s index: %w", cfg.Tables.Turns, err)
	}

	cfg.Logger.Debug("schema ready", "table", cfg.Tables.Turns)
	return nil
}
