package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	users    *MockUserStore
	tasks    *MockTaskStore
	avatars  *MockAvatarStore
	sessions *MockSessionStore
	tokens   *MockJWTService
	verifier *MockPasswordVerifier
	service  UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &userFixture{
		db:       db,
		sqlMock:  sqlMock,
		users:    new(MockUserStore),
		tasks:    new(MockTaskStore),
		avatars:  new(MockAvatarStore),
		sessions: new(MockSessionStore),
		tokens:   new(MockJWTService),
		verifier: new(MockPasswordVerifier),
	}
	manager, err := NewSessionManager(f.users, f.sessions, f.tokens, f.verifier, nil)
	require.NoError(t, err)

	f.service, err = NewUserService(db, f.users, f.tasks, f.avatars, manager, nil)
	require.NoError(t, err)
	return f
}

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and first session in one transaction", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
		f.tokens.On("GenerateToken", mock.Anything, mock.Anything).Return("tok-1", nil)
		f.sessions.On("Add", mock.Anything, mock.Anything, "tok-1").Return(nil)

		user, token, err := f.service.Signup(ctx, " Ann ", "ANN@example.com", "Secret123", 30)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "Ann", user.Name)
		assert.Equal(t, "ann@example.com", user.Email)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid input never opens a transaction", func(t *testing.T) {
		f := newUserFixture(t)

		_, _, err := f.service.Signup(ctx, "Ann", "ann@example.com", "password1", 0)
		assert.ErrorIs(t, err, domain.ErrPasswordContainsWord)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email rolls back", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, _, err := f.service.Signup(ctx, "Ann", "ann@example.com", "Secret123", 0)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("session failure rolls back the user", func(t *testing.T) {
		f := newUserFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.users.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.tokens.On("GenerateToken", mock.Anything, mock.Anything).Return("", errors.New("signing failed"))

		_, _, err := f.service.Signup(ctx, "Ann", "ann@example.com", "Secret123", 0)
		assert.Error(t, err)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	f := newUserFixture(t)
	f.users.On("GetByEmail", ctx, "ann@example.com").Return(user, nil)
	f.verifier.On("Compare", "stored-hash", "Secret123").Return(nil)
	f.verifier.On("Compare", "stored-hash", "wrong").Return(errors.New("mismatch"))
	f.tokens.On("GenerateToken", ctx, user.ID).Return("tok-2", nil)
	f.sessions.On("Add", ctx, user.ID, "tok-2").Return(nil)

	got, token, err := f.service.Login(ctx, "ann@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "tok-2", token)

	_, _, err = f.service.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	t.Run("writes validated patch", func(t *testing.T) {
		f := newUserFixture(t)
		user := testUser()
		f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Annie" && u.Age == 31 && u.Password == "NewSecret9"
		})).Return(nil)

		got, err := f.service.Update(ctx, user, domain.UserPatch{
			Name:     str("Annie"),
			Age:      num(31),
			Password: str("NewSecret9"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Annie", got.Name)
		assert.Equal(t, "Ann", user.Name, "caller's user must not be modified")
	})

	t.Run("invalid patch writes nothing", func(t *testing.T) {
		f := newUserFixture(t)
		_, err := f.service.Update(ctx, testUser(), domain.UserPatch{Name: str("Bob"), Age: num(-1)})
		assert.ErrorIs(t, err, domain.ErrNegativeAge)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("email already taken", func(t *testing.T) {
		f := newUserFixture(t)
		f.users.On("Update", ctx, mock.Anything).Return(store.ErrEmailExists)
		_, err := f.service.Update(ctx, testUser(), domain.UserPatch{Email: str("taken@example.com")})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		f := newUserFixture(t)
		user := testUser()
		got, err := f.service.Update(ctx, user, domain.UserPatch{})
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes tasks then user then avatar", func(t *testing.T) {
		f := newUserFixture(t)
		user := testUser()
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.tasks.On("DeleteByOwner", mock.Anything, user.ID).Return(int64(2), nil)
		f.users.On("Delete", mock.Anything, user.ID).Return(nil)
		f.avatars.On("Delete", ctx, user.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, user))
		f.tasks.AssertExpectations(t)
		f.avatars.AssertExpectations(t)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("avatar cleanup failure does not fail the delete", func(t *testing.T) {
		f := newUserFixture(t)
		user := testUser()
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
		f.tasks.On("DeleteByOwner", mock.Anything, user.ID).Return(int64(0), nil)
		f.users.On("Delete", mock.Anything, user.ID).Return(nil)
		f.avatars.On("Delete", ctx, user.ID).Return(errors.New("bucket unavailable"))

		assert.NoError(t, f.service.Delete(ctx, user))
	})

	t.Run("task failure rolls back", func(t *testing.T) {
		f := newUserFixture(t)
		user := testUser()
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()
		f.tasks.On("DeleteByOwner", mock.Anything, user.ID).Return(int64(0), errors.New("lock timeout"))

		assert.Error(t, f.service.Delete(ctx, user))
		f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.avatars.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	user := testUser()
	f.users.On("GetByID", ctx, user.ID).Return(user, nil)

	got, err := f.service.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

var _ auth.JWTService = (*MockJWTService)(nil)
