package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// AvatarStore holds normalized avatar images keyed by user.
type AvatarStore interface {
	// Put stores or replaces the user's avatar.
	Put(ctx context.Context, avatar *domain.Avatar) error

	// Get returns the user's avatar or ErrAvatarNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error)

	// Delete removes the user's avatar. Removing a missing avatar is not an error.
	Delete(ctx context.Context, userID uuid.UUID) error
}
