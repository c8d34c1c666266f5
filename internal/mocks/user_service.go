package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockUserService implements service.UserService for testing.
type MockUserService struct {
	SignupFn  func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)
	LoginFn   func(ctx context.Context, email, password string) (*domain.User, string, error)
	ProfileFn func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateFn  func(ctx context.Context, user *domain.User, patch domain.UserPatch) (*domain.User, error)
	DeleteFn  func(ctx context.Context, user *domain.User) error

	// Default return values
	User         *domain.User
	Token        string
	DefaultError error
}

var _ service.UserService = (*MockUserService)(nil)

// Signup implements service.UserService.
func (m *MockUserService) Signup(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, name, email, password, age)
	}
	return m.User, m.Token, m.DefaultError
}

// Login implements service.UserService.
func (m *MockUserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return m.User, m.Token, m.DefaultError
}

// Profile implements service.UserService.
func (m *MockUserService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx, userID)
	}
	return m.User, m.DefaultError
}

// Update implements service.UserService.
func (m *MockUserService) Update(
	ctx context.Context,
	user *domain.User,
	patch domain.UserPatch,
) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user, patch)
	}
	return m.User, m.DefaultError
}

// Delete implements service.UserService.
func (m *MockUserService) Delete(ctx context.Context, user *domain.User) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, user)
	}
	return m.DefaultError
}
