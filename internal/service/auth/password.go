package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error

	// CompareDummy performs a comparison that always fails and costs as much
	// as Compare. It is used when there is no stored hash to compare against.
	CompareDummy(password string)
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct {
	dummyHash []byte
}

// NewBcryptVerifier creates a BcryptVerifier whose dummy comparison runs at
// cost, the same cost stored hashes use.
func NewBcryptVerifier(cost int) (*BcryptVerifier, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("tasker-dummy-credential"), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptVerifier{dummyHash: hash}, nil
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CompareDummy implements PasswordVerifier.
func (v *BcryptVerifier) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
}
