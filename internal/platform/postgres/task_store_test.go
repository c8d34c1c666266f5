package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{"id", "owner_id", "description", "completed", "created_at", "updated_at"}

func TestBuildListQuery(t *testing.T) {
	owner := uuid.New()
	yes := true

	tests := []struct {
		name     string
		query    domain.TaskQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "defaults",
			query:    domain.TaskQuery{},
			wantSQL:  " WHERE owner_id = $1 ORDER BY created_at ASC, id ASC",
			wantArgs: []any{owner},
		},
		{
			name:     "completed filter with paging",
			query:    domain.TaskQuery{Completed: &yes, Limit: 2, Skip: 4},
			wantSQL:  " WHERE owner_id = $1 AND completed = $2 ORDER BY created_at ASC, id ASC LIMIT $3 OFFSET $4",
			wantArgs: []any{owner, true, 2, 4},
		},
		{
			name:     "skip without limit",
			query:    domain.TaskQuery{Skip: 3, Sort: domain.TaskSort{Field: domain.SortUpdatedAt, Descending: true}},
			wantSQL:  " WHERE owner_id = $1 ORDER BY updated_at DESC, id DESC OFFSET $2",
			wantArgs: []any{owner, 3},
		},
		{
			name:     "created ascending",
			query:    domain.TaskQuery{Sort: domain.TaskSort{Field: domain.SortCreatedAt}},
			wantSQL:  " WHERE owner_id = $1 ORDER BY created_at ASC, id ASC",
			wantArgs: []any{owner},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlText, args := buildListQuery(owner, tt.query)
			assert.Contains(t, sqlText, "FROM tasks"+tt.wantSQL)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPostgresTaskStore(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("create", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		task, err := domain.NewTask(owner, "buy groceries", false)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO tasks").
			WithArgs(task.ID, owner, "buy groceries", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, task))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get scoped by owner", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND owner_id = $2`)).
			WithArgs(id, owner).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).AddRow(id, owner, "walk the dog", true, now, now))

		task, err := s.GetByID(ctx, owner, id)
		require.NoError(t, err)
		assert.Equal(t, "walk the dog", task.Description)
		assert.True(t, task.Completed)

		stranger := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND owner_id = $2`)).
			WithArgs(id, stranger).
			WillReturnRows(sqlmock.NewRows(taskRowColumns))

		_, err = s.GetByID(ctx, stranger, id)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("list", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM tasks WHERE owner_id = \\$1 ORDER BY created_at ASC, id ASC LIMIT \\$2").
			WithArgs(owner, 2).
			WillReturnRows(sqlmock.NewRows(taskRowColumns).
				AddRow(uuid.New(), owner, "first task", false, now, now).
				AddRow(uuid.New(), owner, "second task", true, now, now))

		tasks, err := s.List(ctx, owner, domain.TaskQuery{Limit: 2})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "first task", tasks[0].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list query failure", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery("FROM tasks").WillReturnError(dbErr)

		_, err := s.List(ctx, owner, domain.TaskQuery{})
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("update of another owner's task", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		task, err := domain.NewTask(owner, "buy groceries", false)
		require.NoError(t, err)

		mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, s.Update(ctx, task), store.ErrTaskNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`)).
			WithArgs(id, owner).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, s.Delete(ctx, owner, id))

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`)).
			WithArgs(id, owner).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, s.Delete(ctx, owner, id), store.ErrTaskNotFound)
	})

	t.Run("delete by owner", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tasks WHERE owner_id = $1`)).
			WithArgs(owner).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := s.DeleteByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
