package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{"nil", nil, false, false},
		{"generic", errors.New("boom"), false, false},
		{"not found", ErrNotFound, true, false},
		{"user not found", ErrUserNotFound, true, false},
		{"wrapped task not found", fmt.Errorf("get task: %w", ErrTaskNotFound), true, false},
		{"session not found", ErrSessionNotFound, true, false},
		{"avatar not found", ErrAvatarNotFound, true, false},
		{"email exists", ErrEmailExists, false, true},
		{"wrapped duplicate", fmt.Errorf("insert: %w", ErrDuplicate), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantDuplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewStoreError("task", "update", "failed to update task", inner)

	assert.Equal(t, "update operation on task failed: failed to update task: connection reset", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("user", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on user failed: no rows", bare.Error())
}
