package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
)

// MockSessionManager implements service.SessionManager for testing.
type MockSessionManager struct {
	IssueFn        func(ctx context.Context, user *domain.User) (string, error)
	ResolveFn      func(ctx context.Context, token string) (*domain.User, error)
	RevokeFn       func(ctx context.Context, user *domain.User, token string) error
	RevokeAllFn    func(ctx context.Context, user *domain.User) error
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)

	// Default return values
	User         *domain.User
	Token        string
	DefaultError error

	// Recorded calls
	RevokedTokens []string
	RevokeAllFor  []*domain.User
}

var _ service.SessionManager = (*MockSessionManager)(nil)

// Issue implements service.SessionManager.
func (m *MockSessionManager) Issue(ctx context.Context, user *domain.User) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, user)
	}
	return m.Token, m.DefaultError
}

// Resolve implements service.SessionManager.
func (m *MockSessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, token)
	}
	return m.User, m.DefaultError
}

// Revoke implements service.SessionManager.
func (m *MockSessionManager) Revoke(ctx context.Context, user *domain.User, token string) error {
	m.RevokedTokens = append(m.RevokedTokens, token)
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, user, token)
	}
	return m.DefaultError
}

// RevokeAll implements service.SessionManager.
func (m *MockSessionManager) RevokeAll(ctx context.Context, user *domain.User) error {
	m.RevokeAllFor = append(m.RevokeAllFor, user)
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, user)
	}
	return m.DefaultError
}

// Authenticate implements service.SessionManager.
func (m *MockSessionManager) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.User, m.DefaultError
}

// WithTx returns the mock itself.
func (m *MockSessionManager) WithTx(_ *sql.Tx) service.SessionManager {
	return m
}
