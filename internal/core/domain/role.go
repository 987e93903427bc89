package domain

import "strings"

// Role is the privilege level carried by a session.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleOwner, RoleAdmin:
		return r, true
	}
	return "", false
}

// CanWrite reports whether the role may perform administrative writes.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
