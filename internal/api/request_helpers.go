package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/api/middleware"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// currentSession returns the user and token the access gate attached to the
// request. It writes a 401 and returns false when they are missing, which
// only happens if a route was mounted outside the gate.
func currentSession(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.User, string, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		log.Warn("authenticated user not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.AuthFailureMessage)
		return nil, "", false
	}
	token, _ := shared.TokenFromContext(r.Context())
	return user, token, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// pathUUIDOrNotFound reads a UUID path parameter. A malformed ID cannot name
// an existing resource, so it is answered with 404 and notFoundMsg.
func pathUUIDOrNotFound(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	notFoundMsg string,
	log *slog.Logger,
) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("malformed path id",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, notFoundMsg, err)
		return uuid.Nil, false
	}
	return id, true
}
