package auth

import "errors"

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and payloads
	// without a usable user id.
	ErrInvalidToken = errors.New("invalid bearer token")

	ErrExpiredToken = errors.New("bearer token expired")

	// ErrTokenNotYetValid is returned when nbf or iat lies in the future.
	ErrTokenNotYetValid = errors.New("bearer token not yet valid")

	// ErrMissingToken means the request carried no Authorization header.
	ErrMissingToken = errors.New("bearer token missing")
)

// IsTokenError reports whether err stems from a token that cannot open a
// session, as opposed to an infrastructure failure.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrMissingToken)
}
