package domain

import "time"

// Role is the closed set of authorization roles. A role is validated once at
// the API boundary and never re-coerced downstream.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// RequireRole is a pure authorization gate: no I/O, no side effects.
func RequireRole(u *User, role Role) error {
	if u == nil || u.Role != role {
		return ErrForbidden
	}
	return nil
}

// User models a registered account.
//
// HashedPassword is an opaque bcrypt blob: never logged, never serialized
// into API responses.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	Confirmed      bool      `json:"confirmed"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
