package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service"
)

// UserHandler serves account and session endpoints under /users.
type UserHandler struct {
	users    service.UserService
	sessions service.SessionManager
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, sessions service.SessionManager, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, token, err := h.users.Signup(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  profileFromUser(user),
		Token: token,
	})
}

// Login handles POST /users/login. Every client-side failure answers with
// the same message so callers cannot probe which emails exist.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, service.ErrInvalidCredentials, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, service.ErrInvalidCredentials, "")
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to login")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  profileFromUser(user),
		Token: token,
	})
}

// Logout handles POST /users/logout by revoking only the presented token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, token, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	if err := h.sessions.Revoke(r.Context(), user, token); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Logged out")
}

// LogoutAll handles POST /users/logoutAll.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	if err := h.sessions.RevokeAll(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Logged out of all sessions")
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	profile, err := h.users.Profile(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileFromUser(profile))
}

// UpdateMe handles PATCH /users/me. The body may only name name, email,
// password and age; any other key rejects the whole update.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	body, err := shared.ReadBody(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	patch, err := domain.ParseUserPatch(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.users.Update(r.Context(), user, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileFromUser(updated))
}

// DeleteMe handles DELETE /users/me and returns the profile that was removed.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, _, ok := currentSession(w, r, log)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	log.Info("user deleted", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, profileFromUser(user))
}
