package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/imaging"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AvatarService stores normalized profile images.
type AvatarService interface {
	// Set validates, normalizes and stores an uploaded image. The extension
	// is checked before any byte of r is read.
	Set(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error)
}

type avatarServiceImpl struct {
	users    store.UserStore
	avatars  store.AvatarStore
	maxBytes int64
	size     int
	logger   *slog.Logger
}

var _ AvatarService = (*avatarServiceImpl)(nil)

// NewAvatarService creates an AvatarService accepting uploads up to maxBytes
// and storing them as size x size PNGs.
func NewAvatarService(
	users store.UserStore,
	avatars store.AvatarStore,
	maxBytes int64,
	size int,
	logger *slog.Logger,
) (AvatarService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if avatars == nil {
		return nil, domain.NewValidationError("avatars", "cannot be nil", domain.ErrValidation)
	}
	if maxBytes <= 0 || size <= 0 {
		return nil, domain.NewValidationError("limits", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &avatarServiceImpl{
		users:    users,
		avatars:  avatars,
		maxBytes: maxBytes,
		size:     size,
		logger:   logger.With(slog.String("component", "avatar_service")),
	}, nil
}

// AllowedAvatarFile reports whether filename carries an accepted extension.
func AllowedAvatarFile(filename string) bool {
	return allowedAvatarExtensions[strings.ToLower(filepath.Ext(filename))]
}

func (s *avatarServiceImpl) Set(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !AllowedAvatarFile(filename) {
		return ErrAvatarType
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrAvatarTooLarge
		}
		return NewServiceError("set avatar", "failed to read upload", err)
	}
	if int64(len(data)) > s.maxBytes {
		return ErrAvatarTooLarge
	}

	normalized, err := imaging.Normalize(data, s.size)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			return fmt.Errorf("%w: %v", ErrAvatarDecode, err)
		}
		return NewServiceError("set avatar", "failed to normalize image", err)
	}

	err = s.avatars.Put(ctx, &domain.Avatar{
		UserID:      userID,
		Data:        normalized,
		ContentType: domain.AvatarContentType,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return err
		}
		log.Error("failed to store avatar", "error", err, "user_id", userID)
		return NewServiceError("set avatar", "failed to store avatar", err)
	}

	log.Debug("avatar stored", "user_id", userID, "bytes", len(normalized))
	return nil
}

func (s *avatarServiceImpl) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.avatars.Delete(ctx, userID); err != nil {
		return NewServiceError("clear avatar", "failed to delete avatar", err)
	}
	return nil
}

func (s *avatarServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("get avatar", "failed to load user", err)
	}

	avatar, err := s.avatars.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrAvatarNotFound) {
			return nil, err
		}
		return nil, NewServiceError("get avatar", "failed to load avatar", err)
	}
	return avatar, nil
}
