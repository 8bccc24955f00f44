package rbac

// Permission tokens follow the "resource:verb" convention used throughout
// the installops API surface, e.g. "orders:write".

// rolePermissions is the static grant table. It is consulted at query time
// and never persisted; changing a role's grants takes effect everywhere on
// the next deploy.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"users:read", "users:write", "users:delete",
		"stores:read", "stores:write", "stores:delete",
		"orders:read", "orders:write", "orders:delete",
		"installations:read", "installations:write", "installations:delete",
		"inventory:read", "inventory:write", "inventory:delete",
		"reports:read", "reports:write",
		"audit:read",
		"webhooks:read", "webhooks:write", "webhooks:delete",
		"capacity:read", "capacity:write",
		"checklists:read", "checklists:write", "checklists:delete",
	},
	RoleStoreManager: {
		"orders:read", "orders:write",
		"installations:read", "installations:write",
		"customers:read", "customers:write",
		"calendar:read", "calendar:write",
		"reports:read",
	},
	RoleCrew: {
		"installations:read",
		"checklists:read", "checklists:write",
		"media:read", "media:write",
	},
}

// permissionSets is rolePermissions folded into sets for O(1) membership.
var permissionSets = func() map[Role]map[string]bool {
	sets := make(map[Role]map[string]bool, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[string]bool, len(perms))
		for _, p := range perms {
			set[p] = true
		}
		sets[role] = set
	}
	return sets
}()

// Allowed reports whether the role grants the given permission token.
// Unknown tokens and unknown roles are simply false, never an error.
func Allowed(role Role, permission string) bool {
	return permissionSets[Normalize(string(role))][permission]
}

// Permissions returns a copy of the grant list for a role.
func Permissions(role Role) []string {
	perms := rolePermissions[Normalize(string(role))]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
