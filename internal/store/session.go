package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SessionStore persists each user's ordered list of active session tokens.
type SessionStore interface {
	// Add appends token to the user's session list.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether token is in the user's session list.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// List returns the user's tokens, oldest first.
	List(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Remove deletes exactly one matching token.
	// Returns ErrSessionNotFound when it is not in the list.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll empties the user's session list.
	RemoveAll(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a SessionStore bound to tx.
	WithTx(tx *sql.Tx) SessionStore
}
