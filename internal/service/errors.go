package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password,
	// so a caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrSessionRevoked indicates a well-formed token that is no longer in the
	// user's session list, or whose user no longer exists.
	ErrSessionRevoked = errors.New("session is no longer active")

	ErrAvatarTooLarge = fmt.Errorf("%w: avatar is too large", domain.ErrValidation)
	ErrAvatarType     = fmt.Errorf("%w: avatar must be a jpg, jpeg or png image", domain.ErrValidation)
	ErrAvatarDecode   = fmt.Errorf("%w: avatar could not be decoded", domain.ErrValidation)
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
