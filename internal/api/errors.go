package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasker-api/internal/api/middleware"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var vErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case auth.IsTokenError(err), errors.Is(err, service.ErrSessionRevoked):
		return http.StatusUnauthorized

	// Bad login credentials are a client error on the login route, not a
	// gate failure; 401 is reserved for requests without a live session.
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrAvatarNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &vErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// messages are written by the domain for clients and pass through; anything
// else gets a fixed message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var vErrs validator.ValidationErrors
	var vErr *domain.ValidationError

	switch {
	case auth.IsTokenError(err), errors.Is(err, service.ErrSessionRevoked):
		return middleware.AuthFailureMessage

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Unable to login"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrAvatarNotFound):
		return "Avatar not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrInvalidUpdate):
		return "Invalid update!"
	case errors.Is(err, domain.ErrInvalidQuery):
		return "Invalid query parameters"
	case errors.Is(err, service.ErrAvatarTooLarge):
		return "Avatar is too large"
	case errors.Is(err, service.ErrAvatarType):
		return "Please upload a jpg, jpeg or png image"
	case errors.Is(err, service.ErrAvatarDecode):
		return "Avatar could not be decoded"

	case errors.As(err, &vErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return genericErrorMessage
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. fallbackMsg replaces the generic message on 5xx.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		message = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator output into a message naming the
// field and the failed rule, and nothing else.
func SanitizeValidationError(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return "Validation error"
	}

	fe := vErrs[0]
	field := strings.ToLower(fe.Field())
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "must not be negative"
	default:
		return "validation failed"
	}
}
