package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

const taskColumns = `id, owner_id, description, completed, created_at, updated_at`

// PostgresTaskStore implements store.TaskStore. Every query is scoped by
// owner so one user can never observe another user's tasks.
type PostgresTaskStore struct {
	db store.DBTX
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a task store backed by db.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

// WithTx returns a store that runs its queries on tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

// Create inserts a validated task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.OwnerID, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to insert task", "error", err, "task_id", task.ID)
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}
	return nil
}

// GetByID returns the task only when it belongs to ownerID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	var t domain.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}
	return &t, nil
}

// List returns the owner's tasks filtered, ordered and paged by query.
func (s *PostgresTaskStore) List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error) {
	sqlText, args := buildListQuery(ownerID, query)

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list tasks", "error", err, "owner_id", ownerID)
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", MapError(err))
	}
	return tasks, nil
}

func buildListQuery(ownerID uuid.UUID, query domain.TaskQuery) (string, []any) {
	var b strings.Builder
	args := []any{ownerID}

	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)

	if query.Completed != nil {
		args = append(args, *query.Completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy(query.Sort))

	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if query.Skip > 0 {
		args = append(args, query.Skip)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

// orderBy maps a sort onto a fixed column list; no user text reaches the SQL.
func orderBy(sort domain.TaskSort) string {
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	switch sort.Field {
	case domain.SortCreatedAt:
		return "created_at " + dir + ", id " + dir
	case domain.SortUpdatedAt:
		return "updated_at " + dir + ", id " + dir
	default:
		return "created_at ASC, id ASC"
	}
}

// Update writes description and completed for a task the owner holds.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		SET description = $1, completed = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5`,
		task.Description, task.Completed, task.UpdatedAt, task.ID, task.OwnerID,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to update task", "error", err, "task_id", task.ID)
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete removes a task the owner holds.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete task", "error", err, "task_id", id)
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteByOwner removes every task of ownerID and reports how many went.
func (s *PostgresTaskStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete owner tasks", "error", err, "owner_id", ownerID)
		return 0, store.NewStoreError("task", "delete by owner", "failed to delete tasks", MapError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
