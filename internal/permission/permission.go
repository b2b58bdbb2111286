package permission

import "fmt"

// Permission is a capability tag attached to a user.
type Permission string

const (
	Admin            Permission = "ADMIN"
	User             Permission = "USER"
	ItemCreate       Permission = "ITEMCREATE"
	ItemUpdate       Permission = "ITEMUPDATE"
	ItemDelete       Permission = "ITEMDELETE"
	PermissionUpdate Permission = "PERMISSIONUPDATE"
)

var all = map[Permission]bool{
	Admin:            true,
	User:             true,
	ItemCreate:       true,
	ItemUpdate:       true,
	ItemDelete:       true,
	PermissionUpdate: true,
}

// Parse rejects anything outside the closed set.
func Parse(s string) (Permission, error) {
	p := Permission(s)
	if !all[p] {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}

// Set is an unordered collection of permissions, stored on the user row.
type Set []Permission

func (s Set) Has(p Permission) bool {
	for _, have := range s {
		if have == p {
			return true
		}
	}
	return false
}

// HasAny reports whether the set intersects the required permissions.
func (s Set) HasAny(required ...Permission) bool {
	for _, want := range required {
		if s.Has(want) {
			return true
		}
	}
	return false
}
