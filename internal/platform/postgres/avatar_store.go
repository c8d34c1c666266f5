package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// PostgresAvatarStore keeps avatar bytes in the user_avatars table.
type PostgresAvatarStore struct {
	db store.DBTX
}

var _ store.AvatarStore = (*PostgresAvatarStore)(nil)

// NewPostgresAvatarStore creates an avatar store backed by db.
func NewPostgresAvatarStore(db store.DBTX) *PostgresAvatarStore {
	return &PostgresAvatarStore{db: db}
}

// Put stores or replaces the user's avatar.
func (s *PostgresAvatarStore) Put(ctx context.Context, avatar *domain.Avatar) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_avatars (user_id, image, content_type, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET image = EXCLUDED.image, content_type = EXCLUDED.content_type, updated_at = EXCLUDED.updated_at`,
		avatar.UserID, avatar.Data, avatar.ContentType, avatar.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to store avatar", "error", err, "user_id", avatar.UserID)
		return store.NewStoreError("avatar", "put", "failed to store avatar", MapError(err))
	}
	return nil
}

// Get returns the user's avatar or store.ErrAvatarNotFound.
func (s *PostgresAvatarStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error) {
	a := domain.Avatar{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT image, content_type, updated_at FROM user_avatars WHERE user_id = $1`,
		userID,
	).Scan(&a.Data, &a.ContentType, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAvatarNotFound
		}
		return nil, store.NewStoreError("avatar", "get", "failed to query avatar", MapError(err))
	}
	return &a, nil
}

// Delete removes the user's avatar. Deleting a missing avatar succeeds.
func (s *PostgresAvatarStore) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_avatars WHERE user_id = $1`, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete avatar", "error", err, "user_id", userID)
		return store.NewStoreError("avatar", "delete", "failed to delete avatar", MapError(err))
	}
	return nil
}
