package application

import (
	"golang.org/x/crypto/bcrypt"
)

// CredentialManager hashes and verifies passwords. Hashing must only run
// when a password is newly set or changed; callers never rehash an already
// hashed value on unrelated field updates.
type CredentialManager struct {
	cost int
}

func NewCredentialManager() *CredentialManager {
	return &CredentialManager{cost: bcrypt.DefaultCost}
}

// Hash computes a salted bcrypt hash. The random salt means two calls with
// the same input produce different, equally valid outputs.
func (m *CredentialManager) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), m.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a plaintext password against a stored hash. A mismatch is
// false, not an error; the login flow decides what to surface.
func (m *CredentialManager) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
