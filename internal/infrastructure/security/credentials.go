// Package security checks login credentials against the identity directory.
package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/educrm/educrm-hub/internal/domain/identity"
)

// Verifier decides whether password unlocks entry.
type Verifier interface {
	Verify(entry identity.Entry, password string) bool
}

// SharedSecret accepts one secret for every identity. It exists for the
// fixture-backed demo mode only and must never back real accounts.
type SharedSecret struct {
	hash []byte
}

// NewSharedSecret hashes secret with cost. Pass bcrypt.MinCost in tests.
func NewSharedSecret(secret string, cost int) (*SharedSecret, error) {
	if secret == "" {
		return nil, errors.New("security: shared secret must not be empty")
	}
	hash, err := HashPassword(secret, cost)
	if err != nil {
		return nil, err
	}
	return &SharedSecret{hash: hash}, nil
}

// Verify implements Verifier.
func (s *SharedSecret) Verify(_ identity.Entry, password string) bool {
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// PerIdentity checks each entry's own bcrypt hash. Entries without a hash
// can never sign in.
type PerIdentity struct{}

// Verify implements Verifier.
func (PerIdentity) Verify(entry identity.Entry, password string) bool {
	if len(entry.PasswordHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(entry.PasswordHash, []byte(password)) == nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("security: hash password: %w", err)
	}
	return hash, nil
}
