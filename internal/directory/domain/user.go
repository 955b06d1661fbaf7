package domain

import (
	"errors"
	"fmt"
)

// Role is the privilege level of a user. Stored as text in the users table.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrUnknownRole is returned by ParseRole for values outside the closed set.
var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole maps stored text to a Role. Unrecognised values return RoleUser
// together with ErrUnknownRole so callers can report the integrity problem
// while still falling back to the least privileged role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID         int64
	Name       string
	StartToken string // one-time registration secret, never regenerated
	Role       Role
}

// IdentityLink binds an external messaging identity to a user.
type IdentityLink struct {
	ExternalID int64
	UserID     int64
}

// UserWithLink is a user row joined with its optional identity link.
type UserWithLink struct {
	User User
	Link *IdentityLink
}
