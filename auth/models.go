// Package auth is responsible for authentication and authorization:
// user signup and login, password hashing, token issuance and validation,
// the request middleware that establishes an authenticated identity, and
// the ownership guard used by every resource mutation.
package auth

import "time"

// Role enumerates the user roles known to the platform.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User represents a user row. HashedPassword is excluded from JSON so it can
// never leak through a serialized response; it may be empty for accounts
// created through external identity providers.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	Avatar         string    `json:"avatar"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Identity is the request-scoped authenticated identity attached to the
// context by the middleware. It lives only for the duration of a request.
type Identity struct {
	ID   string
	Role Role
}
