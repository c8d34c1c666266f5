package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockAvatarService implements service.AvatarService for testing.
type MockAvatarService struct {
	SetFn   func(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) error
	ClearFn func(ctx context.Context, userID uuid.UUID) error
	GetFn   func(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error)

	// Default return values
	Avatar       *domain.Avatar
	DefaultError error
}

var _ service.AvatarService = (*MockAvatarService)(nil)

// Set implements service.AvatarService.
func (m *MockAvatarService) Set(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, userID, filename, r)
	}
	return m.DefaultError
}

// Clear implements service.AvatarService.
func (m *MockAvatarService) Clear(ctx context.Context, userID uuid.UUID) error {
	if m.ClearFn != nil {
		return m.ClearFn(ctx, userID)
	}
	return m.DefaultError
}

// Get implements service.AvatarService.
func (m *MockAvatarService) Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return m.Avatar, m.DefaultError
}
