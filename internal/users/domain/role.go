package domain

import "errors"

// Role is the closed set of roles a user can hold. There is deliberately no
// hierarchy: every route requires either a specific role or any
// authenticated principal, and ADMIN does not implicitly satisfy USER.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string { return string(r) }
