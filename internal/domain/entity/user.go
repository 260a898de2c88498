package entity

import (
	"strings"
	"time"
)

// Role controls what a user may do. Admins are preferred as the author of
// record for ingested articles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered reader or editor.
// Liked and saved articles are stored as relations and loaded on demand.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the fields required to persist a user.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return &ValidationError{Field: "password", Message: "password hash is required"}
	}
	if u.Role != "" && !u.Role.Valid() {
		return &ValidationError{Field: "role", Message: "role must be user or admin"}
	}
	return nil
}
