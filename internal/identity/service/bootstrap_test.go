package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/rbac"
)

func TestBootstrapSeedsAdminOnce(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BootstrapService{
		Store:         st,
		Logger:        slog.Default(),
		AdminName:     "Root Admin",
		AdminEmail:    "root@example.com",
		AdminPassword: "bootstrap-secret",
	}
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	u, err := st.Users().GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, rbac.RoleAdmin, u.Role)
	require.True(t, u.IsActive())

	// Second seed on a populated database is a no-op.
	require.NoError(t, svc.Seed(ctx))

	// The seeded credentials work end to end.
	auth := newAuthService(st)
	_, token, err := auth.Login(ctx, "root@example.com", "bootstrap-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestBootstrapSkipsWhenUnconfigured(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BootstrapService{Store: st, Logger: slog.Default()}
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestBootstrapRejectsHalfConfig(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &BootstrapService{
		Store:      st,
		Logger:     slog.Default(),
		AdminEmail: "root@example.com",
	}

	require.ErrorIs(t, svc.Seed(context.Background()), ErrBootstrapMisconfigured)
}

func TestBootstrapDoesNotOverwriteExistingUsers(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedUser(t, st, "existing@example.com", "pw12345678", rbac.RoleCrew)

	svc := &BootstrapService{
		Store:         st,
		Logger:        slog.Default(),
		AdminEmail:    "root@example.com",
		AdminPassword: "bootstrap-secret",
	}
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	_, err := st.Users().GetUserByEmail(ctx, "root@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
