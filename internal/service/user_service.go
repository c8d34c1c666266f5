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

// UserService provides account operations.
type UserService interface {
	// Signup creates the user and its first session in one transaction.
	Signup(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)

	// Login authenticates and opens a new session.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Profile returns the stored user.
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Update validates the whole patch before writing anything.
	Update(ctx context.Context, user *domain.User, patch domain.UserPatch) (*domain.User, error)

	// Delete removes the user together with its tasks, sessions and avatar.
	Delete(ctx context.Context, user *domain.User) error
}

type userServiceImpl struct {
	db       store.TxBeginner
	users    store.UserStore
	tasks    store.TaskStore
	avatars  store.AvatarStore
	sessions SessionManager
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService.
func NewUserService(
	db store.TxBeginner,
	users store.UserStore,
	tasks store.TaskStore,
	avatars store.AvatarStore,
	sessions SessionManager,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if avatars == nil {
		return nil, domain.NewValidationError("avatars", "cannot be nil", domain.ErrValidation)
	}
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:       db,
		users:    users,
		tasks:    tasks,
		avatars:  avatars,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) Signup(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password, age)
	if err != nil {
		return nil, "", err
	}

	var token string
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		var issueErr error
		token, issueErr = s.sessions.WithTx(tx).Issue(ctx, user)
		return issueErr
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) || domain.IsValidationError(err) {
			log.Debug("signup rejected", "error", err)
			return nil, "", err
		}
		log.Error("failed to sign up user", "error", err)
		return nil, "", NewServiceError("signup", "failed to create user", err)
	}

	log.Info("user signed up", "user_id", user.ID)
	return user, token, nil
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.sessions.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("user logged in", "user_id", user.ID)
	return user, token, nil
}

func (s *userServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("profile", "failed to load user", err)
	}
	return user, nil
}

func (s *userServiceImpl) Update(
	ctx context.Context,
	user *domain.User,
	patch domain.UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	next := *user
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return &next, nil
	}

	if err := s.users.Update(ctx, &next); err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrUserNotFound) ||
			domain.IsValidationError(err) {
			return nil, err
		}
		log.Error("failed to update user", "error", err, "user_id", user.ID)
		return nil, NewServiceError("update user", "failed to save user", err)
	}

	log.Debug("user updated", "user_id", user.ID)
	return &next, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removedTasks int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if removedTasks, err = s.tasks.WithTx(tx).DeleteByOwner(ctx, user.ID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return err
		}
		log.Error("failed to delete user", "error", err, "user_id", user.ID)
		return NewServiceError("delete user", "failed to delete user", err)
	}

	// Database avatars cascade with the user row; object storage does not.
	if err := s.avatars.Delete(ctx, user.ID); err != nil {
		log.Warn("failed to remove avatar of deleted user", "error", err, "user_id", user.ID)
	}

	log.Info("user deleted", "user_id", user.ID, "tasks_removed", removedTasks)
	return nil
}
