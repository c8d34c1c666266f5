package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every lookup is
// scoped to an owner: a task that exists but belongs to another user is
// reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves one of ownerID's tasks.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns ownerID's tasks filtered, ordered and paged by query.
	List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error)

	// Update writes description, completed and updated_at of an owned task.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes one of ownerID's tasks.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task of ownerID and returns how many went.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
