package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest plaintext password accepted.
const MinPasswordLength = 7

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// forbiddenPasswordWord may not appear anywhere in a password, in any case.
const forbiddenPasswordWord = "password"

// User validation errors.
var (
	ErrEmptyUserID          = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyName            = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyEmail           = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail         = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyPassword        = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooShort     = fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong      = fmt.Errorf("%w: password must be at most %d bytes long", ErrValidation, MaxPasswordBytes)
	ErrPasswordContainsWord = fmt.Errorf("%w: password cannot contain %q", ErrValidation, forbiddenPasswordWord)
	ErrNegativeAge          = fmt.Errorf("%w: age must be a non-negative number", ErrValidation)
)

var emailValidator = validator.New()

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set while creating or changing the password
	HashedPassword string    `json:"-"`
	Age            int       `json:"age"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with normalized fields and a fresh ID.
// The caller is responsible for hashing Password before it is stored.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  strings.TrimSpace(password),
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// A plaintext password is validated when present; otherwise a hash must exist.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyUserID)
	}

	if u.Name == "" {
		return NewValidationError("name", "is required", ErrEmptyName)
	}

	if u.Email == "" {
		return NewValidationError("email", "is required", ErrEmptyEmail)
	}
	if err := emailValidator.Var(u.Email, "email"); err != nil {
		return NewValidationError("email", "is invalid", ErrInvalidEmail)
	}

	if u.Password != "" {
		if err := validatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}

	if u.Age < 0 {
		return NewValidationError("age", "must be a positive number", ErrNegativeAge)
	}

	return nil
}

func validatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return NewValidationError(
			"password",
			fmt.Sprintf("must be at least %d characters long", MinPasswordLength),
			ErrPasswordTooShort,
		)
	}
	if len(password) > MaxPasswordBytes {
		return NewValidationError(
			"password",
			fmt.Sprintf("must be at most %d bytes long", MaxPasswordBytes),
			ErrPasswordTooLong,
		)
	}
	if strings.Contains(strings.ToLower(password), forbiddenPasswordWord) {
		return NewValidationError("password", `cannot contain "password"`, ErrPasswordContainsWord)
	}
	return nil
}

// Apply writes the fields set in patch onto the user. The user is left
// untouched if the patched result does not validate.
func (u *User) Apply(patch UserPatch) error {
	next := *u
	next.Password = ""

	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		next.Email = NormalizeEmail(*patch.Email)
	}
	if patch.Password != nil {
		next.Password = strings.TrimSpace(*patch.Password)
		if next.Password == "" {
			return NewValidationError("password", "is required", ErrEmptyPassword)
		}
	}
	if patch.Age != nil {
		next.Age = *patch.Age
	}

	if err := next.Validate(); err != nil {
		return err
	}

	if !patch.IsEmpty() {
		next.UpdatedAt = time.Now().UTC()
	}
	*u = next
	return nil
}
