package models

import (
	"strings"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not serialized
	CreatedAt    time.Time `json:"createdAt"`
}

// Credentials is the register/login payload.
//
// The password travels in a field named passwordHash for wire compatibility with
// existing clients. It carries the raw password; hashing happens only at rest.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"passwordHash"`
}

// Validate checks that both credential fields are present
func (c Credentials) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(c.Email) == "" {
		errs.Add("email", "The Email field is required.")
	}
	if c.Password == "" {
		errs.Add("passwordHash", "The PasswordHash field is required.")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
