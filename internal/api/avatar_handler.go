package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service"
)

// AvatarFormField is the multipart field the image is uploaded in.
const AvatarFormField = "avatar"

// multipartOverhead is allowed on top of the image size for part headers
// and boundaries.
const multipartOverhead = 64 << 10

// AvatarHandler serves profile image upload, removal and download.
type AvatarHandler struct {
	avatars  service.AvatarService
	maxBytes int64
	logger   *slog.Logger
}

// NewAvatarHandler creates a new AvatarHandler accepting images up to maxBytes.
func NewAvatarHandler(avatars service.AvatarService, maxBytes int64, logger *slog.Logger) *AvatarHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AvatarHandler")
	}

	return &AvatarHandler{
		avatars:  avatars,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "avatar_handler")),
	}
}

// UploadAvatar handles POST /users/me/avatar with a multipart body.
func (h *AvatarHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Please upload an avatar", err)
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload an avatar")
			return
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				HandleAPIError(w, r, service.ErrAvatarTooLarge, "")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart body", err)
			return
		}
		if part.FormName() != AvatarFormField {
			_ = part.Close()
			continue
		}

		err = h.avatars.Set(r.Context(), user.ID, part.FileName(), part)
		_ = part.Close()
		if err != nil {
			HandleAPIError(w, r, err, "Failed to save avatar")
			return
		}
		break
	}

	log.Debug("avatar stored", slog.String("user_id", user.ID.String()))
	w.WriteHeader(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *AvatarHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	if err := h.avatars.Clear(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetAvatar handles the public GET /users/{id}/avatar.
func (h *AvatarHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := pathUUIDOrNotFound(w, r, "id", "Avatar not found", log)
	if !ok {
		return
	}

	avatar, err := h.avatars.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load avatar")
		return
	}

	w.Header().Set("Content-Type", avatar.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(avatar.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar.Data); err != nil {
		log.Warn("failed to write avatar", slog.String("error", err.Error()))
	}
}
