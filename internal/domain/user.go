package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that can authenticate
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Principal is the authenticated identity attached to a request after token
// verification.
type Principal struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
	Kind string    `json:"kind"`
}

// IsAdmin reports whether the principal carries the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
