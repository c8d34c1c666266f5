package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// PostgresSessionStore keeps each user's issued tokens in user_sessions.
// Insertion order is preserved by the serial id column.
type PostgresSessionStore struct {
	db store.DBTX
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a session store backed by db.
func NewPostgresSessionStore(db store.DBTX) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

// WithTx returns a store that runs its queries on tx.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx}
}

// Add appends token to the user's session list.
func (s *PostgresSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sessions (user_id, token) VALUES ($1, $2)`,
		userID, token,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to add session", "error", err, "user_id", userID)
		return store.NewStoreError("session", "add", "failed to insert session", MapError(err))
	}
	return nil
}

// Exists reports whether token is currently in the user's session list.
func (s *PostgresSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_sessions WHERE user_id = $1 AND token = $2)`,
		userID, token,
	).Scan(&exists)
	if err != nil {
		return false, store.NewStoreError("session", "exists", "failed to query session", MapError(err))
	}
	return exists, nil
}

// List returns the user's tokens in the order they were issued.
func (s *PostgresSessionStore) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM user_sessions WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, store.NewStoreError("session", "list", "failed to query sessions", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("session", "list", "failed to iterate sessions", MapError(err))
	}
	return tokens, nil
}

// Remove deletes one occurrence of token from the user's list.
func (s *PostgresSessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_sessions
		WHERE id = (
			SELECT id FROM user_sessions
			WHERE user_id = $1 AND token = $2
			ORDER BY id
			LIMIT 1
		)`,
		userID, token,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to remove session", "error", err, "user_id", userID)
		return store.NewStoreError("session", "remove", "failed to delete session", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrSessionNotFound)
}

// RemoveAll empties the user's session list. An already empty list is not an error.
func (s *PostgresSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to remove sessions", "error", err, "user_id", userID)
		return store.NewStoreError("session", "remove all", "failed to delete sessions", MapError(err))
	}
	return nil
}
