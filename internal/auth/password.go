// Package auth holds the password hashing and bearer token primitives.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes)
var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// PasswordHasher hashes passwords for storage and checks them at login
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash never matches.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher. A zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares password with a bcrypt hash
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
