// Package rbac defines the closed set of access roles used across the
// installops platform and the permission grants attached to each role.
//
// Role strings arrive from many places (the identity service, persisted
// client snapshots written by older releases, seed data) in inconsistent
// shapes: "store_manager", "Store Manager", "manager" and so on. Normalize
// is the single funnel through which every raw role string must pass before
// it is stored or compared. Raw strings are never trusted verbatim.
package rbac

import "strings"

// Role is one of the canonical access levels. Only the three constants
// below are ever representable in stored state.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleStoreManager Role = "STORE_MANAGER"
	RoleCrew         Role = "CREW"
)

// Roles lists every canonical role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStoreManager, RoleCrew}
}

// String returns the canonical string form.
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreManager, RoleCrew:
		return true
	}
	return false
}

// Normalize maps an arbitrary role string onto a canonical Role. It is
// total: empty, whitespace-only and unrecognized inputs fall back to
// RoleAdmin, matching the behaviour the web client has always had.
//
// Comparison is case-insensitive with runs of whitespace collapsed to a
// single underscore, so "Store Manager", "store_manager" and "manager"
// all map to RoleStoreManager.
func Normalize(raw string) Role {
	r := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), "_")
	switch r {
	case "admin", "administrator":
		return RoleAdmin
	case "store_manager", "manager", "storemanager":
		return RoleStoreManager
	case "crew", "installation_crew", "installationcrew":
		return RoleCrew
	}
	return RoleAdmin
}
