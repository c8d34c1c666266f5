package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// SessionManager issues bearer tokens and decides whether a presented token
// still opens a session. A token is live while it is in its user's session list.
type SessionManager interface {
	// Issue signs a new token for user and appends it to the session list.
	Issue(ctx context.Context, user *domain.User) (string, error)

	// Resolve returns the user a live token belongs to.
	Resolve(ctx context.Context, token string) (*domain.User, error)

	// Revoke removes token from the user's session list.
	Revoke(ctx context.Context, user *domain.User, token string) error

	// RevokeAll empties the user's session list.
	RevokeAll(ctx context.Context, user *domain.User) error

	// Authenticate checks an email and password pair.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// WithTx returns a manager whose store writes run on tx.
	WithTx(tx *sql.Tx) SessionManager
}

type sessionManagerImpl struct {
	users    store.UserStore
	sessions store.SessionStore
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ SessionManager = (*sessionManagerImpl)(nil)

// NewSessionManager creates a SessionManager.
func NewSessionManager(
	users store.UserStore,
	sessions store.SessionStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (SessionManager, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionManagerImpl{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "session_manager")),
	}, nil
}

func (m *sessionManagerImpl) WithTx(tx *sql.Tx) SessionManager {
	return &sessionManagerImpl{
		users:    m.users.WithTx(tx),
		sessions: m.sessions.WithTx(tx),
		tokens:   m.tokens,
		verifier: m.verifier,
		logger:   m.logger,
	}
}

func (m *sessionManagerImpl) Issue(ctx context.Context, user *domain.User) (string, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	token, err := m.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		return "", NewServiceError("issue", "failed to generate token", err)
	}

	if err := m.sessions.Add(ctx, user.ID, token); err != nil {
		log.Error("failed to store session", "error", err, "user_id", user.ID)
		return "", NewServiceError("issue", "failed to store session", err)
	}

	log.Debug("issued session", "user_id", user.ID)
	return token, nil
}

func (m *sessionManagerImpl) Resolve(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	claims, err := m.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token refers to a missing user", "user_id", claims.UserID)
			return nil, ErrSessionRevoked
		}
		return nil, NewServiceError("resolve", "failed to load user", err)
	}

	live, err := m.sessions.Exists(ctx, user.ID, token)
	if err != nil {
		return nil, NewServiceError("resolve", "failed to check session", err)
	}
	if !live {
		log.Debug("token is not in the session list", "user_id", user.ID)
		return nil, ErrSessionRevoked
	}

	return user, nil
}

func (m *sessionManagerImpl) Revoke(ctx context.Context, user *domain.User, token string) error {
	if err := m.sessions.Remove(ctx, user.ID, token); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return ErrSessionRevoked
		}
		return NewServiceError("revoke", "failed to remove session", err)
	}
	logger.FromContextOrDefault(ctx, m.logger).Debug("revoked session", "user_id", user.ID)
	return nil
}

func (m *sessionManagerImpl) RevokeAll(ctx context.Context, user *domain.User) error {
	if err := m.sessions.RemoveAll(ctx, user.ID); err != nil {
		return NewServiceError("revoke all", "failed to remove sessions", err)
	}
	logger.FromContextOrDefault(ctx, m.logger).Info("revoked all sessions", "user_id", user.ID)
	return nil
}

func (m *sessionManagerImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			m.verifier.CompareDummy(password)
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("authenticate", "failed to load user", err)
	}

	if err := m.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
