package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *domain.User {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:             uuid.New(),
		Name:           "Ann",
		Email:          "ann@example.com",
		HashedPassword: "$2a$10$hash",
		Age:            30,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func testTask(owner uuid.UUID) *domain.Task {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          uuid.New(),
		OwnerID:     owner,
		Description: "water the plants",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// authenticatedAs stands in for the access gate: it attaches user and token
// to every request it passes through.
func authenticatedAs(user *domain.User, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(shared.WithSession(r.Context(), user, token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// serve runs req through a chi router with route registered behind the
// stand-in gate, so chi.URLParam works as in production.
func serve(
	method, pattern string,
	handler http.HandlerFunc,
	user *domain.User,
	req *http.Request,
) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(authenticatedAs(user, "token-1"))
	r.Method(method, pattern, handler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}
