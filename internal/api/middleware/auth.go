package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
)

// AuthFailureMessage is the only message a rejected request ever sees.
const AuthFailureMessage = "Please authenticate"

// SessionResolver resolves a bearer token to the user whose live session it is.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware is the access gate in front of every authenticated route.
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate admits a request only when its bearer token is well formed,
// correctly signed and still present in its user's session list. The user
// and token are then available through shared.UserFromContext and
// shared.TokenFromContext.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())

		token, err := bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, AuthFailureMessage, err)
			return
		}

		user, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, AuthFailureMessage, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		log.Debug("request authenticated", slog.String("user_id", user.ID.String()))
		ctx := shared.WithSession(r.Context(), user, token)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", user.ID.String())))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func isAuthFailure(err error) bool {
	return auth.IsTokenError(err) || errors.Is(err, service.ErrSessionRevoked)
}
