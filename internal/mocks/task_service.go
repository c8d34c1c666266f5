package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockTaskService implements service.TaskService for testing.
type MockTaskService struct {
	CreateFn func(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error)
	ListFn   func(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]*domain.Task, error)
	GetFn    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateFn func(ctx context.Context, ownerID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// Create implements service.TaskService.
func (m *MockTaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed bool,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, description, completed)
	}
	return m.Task, m.DefaultError
}

// List implements service.TaskService.
func (m *MockTaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	query domain.TaskQuery,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, query)
	}
	return m.Tasks, m.DefaultError
}

// Get implements service.TaskService.
func (m *MockTaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, ownerID, taskID)
	}
	return m.Task, m.DefaultError
}

// Update implements service.TaskService.
func (m *MockTaskService) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, taskID, patch)
	}
	return m.Task, m.DefaultError
}

// Delete implements service.TaskService.
func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, taskID)
	}
	return m.Task, m.DefaultError
}
