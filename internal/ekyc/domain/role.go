package domain

import (
	"errors"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole accepts the canonical names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Allows reports whether an account holding r may use a route open to any
// of allowed. An empty allow-list admits every role.
func (r Role) Allows(allowed ...Role) bool {
	if len(allowed) == 0 {
		return r.Valid()
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
