package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/rbac"
)

func TestFullSessionLifecycle(t *testing.T) {
	t.Parallel()

	srv := startServer(t)
	ctx := context.Background()
	snapshotDir := t.TempDir()

	client, err := authsdk.NewClient(srv.URL)
	require.NoError(t, err)

	// Credential exchange establishes the cookie.
	require.NoError(t, client.Login(ctx, adminEmail, adminPassword))

	snapshots, err := authsdk.NewFileSnapshotStore(snapshotDir)
	require.NoError(t, err)

	// The session store verifies it and materializes the user.
	store, err := authsdk.NewStore(authsdk.StoreOptions{
		API:       client,
		Snapshots: snapshots,
	})
	require.NoError(t, err)

	require.NoError(t, store.Login(ctx, adminEmail, adminPassword))
	require.True(t, store.IsAuthenticated())

	u := store.User()
	require.NotNil(t, u)
	require.Equal(t, rbac.RoleAdmin, u.Role)
	require.Equal(t, adminEmail, u.Email)

	require.True(t, store.HasPermission("users:read"))
	require.True(t, store.HasRole(rbac.RoleAdmin))
	require.False(t, store.HasRole(rbac.RoleCrew))

	// A fresh store over the same snapshot dir and cookie jar restores the
	// session without another credential exchange.
	restoredSnapshots, err := authsdk.NewFileSnapshotStore(snapshotDir)
	require.NoError(t, err)
	restored, err := authsdk.NewStore(authsdk.StoreOptions{
		API:       client,
		Snapshots: restoredSnapshots,
	})
	require.NoError(t, err)
	require.True(t, restored.IsAuthenticated())

	user, ok := restored.Initialize(ctx)
	require.True(t, ok)
	require.NotNil(t, user)

	// Logout tears down both sides.
	require.NoError(t, client.Logout(ctx))
	store.Logout()
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())

	_, err = client.Me(ctx)
	require.True(t, authsdk.IsUnauthorized(err))
}

func TestLoginAfterLogoutRecordsCookieGuidance(t *testing.T) {
	t.Parallel()

	srv := startServer(t)
	ctx := context.Background()

	client, err := authsdk.NewClient(srv.URL)
	require.NoError(t, err)

	store, err := authsdk.NewStore(authsdk.StoreOptions{API: client})
	require.NoError(t, err)

	// Session check without any prior credential exchange: the server says
	// 401, which the store reports as cookie guidance.
	err = store.Login(ctx, adminEmail, adminPassword)
	require.Error(t, err)
	require.Equal(t, authsdk.SessionCookieGuidance, store.Err())

	store.ClearError()
	require.Empty(t, store.Err())
}

func TestWrongCredentialsSurfaceAPIMessage(t *testing.T) {
	t.Parallel()

	srv := startServer(t)
	ctx := context.Background()

	client, err := authsdk.NewClient(srv.URL)
	require.NoError(t, err)

	err = client.Login(ctx, adminEmail, "wrong password")
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid_credentials", apiErr.Code)
}

func TestNavThroughSDK(t *testing.T) {
	t.Parallel()

	srv := startServer(t)
	ctx := context.Background()

	client, err := authsdk.NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, client.Login(ctx, adminEmail, adminPassword))

	items, err := client.Nav(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, items)

	filtered, err := client.Nav(ctx, "audit")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "page-audit", filtered[0].ID)

	// Unauthenticated nav is refused.
	anon, err := authsdk.NewClient(srv.URL)
	require.NoError(t, err)
	_, err = anon.Nav(ctx, "")
	require.True(t, authsdk.IsUnauthorized(err))
}
