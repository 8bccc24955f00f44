package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	t.Run("crew can read but not write installations", func(t *testing.T) {
		require.True(t, Allowed(RoleCrew, "installations:read"))
		require.False(t, Allowed(RoleCrew, "installations:write"))
	})

	t.Run("store manager can write orders but not read users", func(t *testing.T) {
		require.True(t, Allowed(RoleStoreManager, "orders:write"))
		require.False(t, Allowed(RoleStoreManager, "users:read"))
	})

	t.Run("admin holds every token in its catalog", func(t *testing.T) {
		for _, p := range Permissions(RoleAdmin) {
			require.True(t, Allowed(RoleAdmin, p), "token %q", p)
		}
	})

	t.Run("unknown tokens are false for all roles", func(t *testing.T) {
		for _, role := range Roles() {
			require.False(t, Allowed(role, "spaceships:pilot"))
			require.False(t, Allowed(role, ""))
		}
	})

	t.Run("raw role strings are normalized before lookup", func(t *testing.T) {
		require.True(t, Allowed(Role("Store Manager"), "orders:write"))
		require.True(t, Allowed(Role("installation_crew"), "media:write"))
	})
}

func TestPermissionsReturnsCopy(t *testing.T) {
	t.Parallel()

	perms := Permissions(RoleCrew)
	require.NotEmpty(t, perms)
	perms[0] = "tampered"
	require.NotEqual(t, perms[0], Permissions(RoleCrew)[0])
}
