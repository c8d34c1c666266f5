package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// TaskService manages tasks. Every operation is scoped to ownerID; a task
// held by someone else behaves exactly like a missing one.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	// Delete removes the task and returns it as it was.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

type taskServiceImpl struct {
	db     store.TxBeginner
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(db store.TxBeginner, tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:     db,
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, s.wrap(ctx, "create task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

func (s *taskServiceImpl) List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, ownerID, query)
	if err != nil {
		return nil, s.wrap(ctx, "list tasks", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.wrap(ctx, "get task", err)
	}
	return task, nil
}

func (s *taskServiceImpl) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if err := task.Apply(patch); err != nil {
			return err
		}
		if !patch.IsEmpty() {
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, "update task", err)
	}
	return updated, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	var deleted *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, ownerID, taskID); err != nil {
			return err
		}
		deleted = task
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, "delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task deleted", "task_id", taskID, "owner_id", ownerID)
	return deleted, nil
}

// wrap passes expected conditions through and wraps everything else.
func (s *taskServiceImpl) wrap(ctx context.Context, op string, err error) error {
	if errors.Is(err, store.ErrTaskNotFound) || domain.IsValidationError(err) {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed", "operation", op, "error", err)
	return NewServiceError(op, "store failure", err)
}
