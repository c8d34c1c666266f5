package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinDescriptionLength is the shortest task description accepted.
const MinDescriptionLength = 7

// Task validation errors.
var (
	ErrEmptyTaskID         = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyOwnerID        = fmt.Errorf("%w: owner ID cannot be empty", ErrValidation)
	ErrEmptyDescription    = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrDescriptionTooShort = fmt.Errorf("%w: description must be at least %d characters long", ErrValidation, MinDescriptionLength)
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a validated task for ownerID. The description is stored
// lowercased.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: strings.ToLower(description),
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyTaskID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrEmptyOwnerID)
	}
	if t.Description == "" {
		return NewValidationError("description", "is required", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(t.Description) < MinDescriptionLength {
		return NewValidationError(
			"description",
			fmt.Sprintf("must be at least %d characters long", MinDescriptionLength),
			ErrDescriptionTooShort,
		)
	}
	return nil
}

// Apply writes the fields set in patch onto the task, leaving it unchanged
// when the result is invalid.
func (t *Task) Apply(patch TaskPatch) error {
	next := *t

	if patch.Description != nil {
		next.Description = strings.ToLower(*patch.Description)
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}

	if err := next.Validate(); err != nil {
		return err
	}

	if !patch.IsEmpty() {
		next.UpdatedAt = time.Now().UTC()
	}
	*t = next
	return nil
}
