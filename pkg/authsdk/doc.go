/*
Package authsdk provides a client SDK for the installops identity service:
a transport Client bound to the service's cookie-based session endpoints,
and a Store holding the resulting client-side session state.

# Client vs Store

The two types split transport from state:

  - Client: performs the HTTP calls (login, who-am-i, logout, nav) and
    carries the sid cookie in its jar
  - Store: holds the session state the rest of the application reads
    (user, authentication flag, loading flag, last error) and answers
    role/permission queries

A typical application wires them together at startup:

	client, err := authsdk.NewClient("https://identity.example.com")
	if err != nil {
		log.Fatal(err)
	}

	snapshots, err := authsdk.NewFileSnapshotStore(cfgDir)
	if err != nil {
		log.Fatal(err)
	}

	store, err := authsdk.NewStore(authsdk.StoreOptions{
		API:       client,
		Snapshots: snapshots,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Silent session restore; failure just means the landing page.
	user, ok := store.Initialize(ctx)

# Login flow

The credential exchange and the local state commit are separate steps, the
same split the web front-end has. Client.Login sends the credentials and
receives the session cookie; Store.Login then independently verifies the
session and materializes the user record:

	if err := client.Login(ctx, email, password); err != nil {
		// credential rejection, show the form error
	}
	if err := store.Login(ctx, email, password); err != nil {
		// session verification failed; store.Err() has the display text
	}

# Permission queries

Route guards and navigation read the store synchronously:

	if store.HasPermission("orders:write") { ... }
	if store.HasAnyRole(rbac.RoleAdmin, rbac.RoleStoreManager) { ... }

Both are false whenever no user is signed in; they never return errors.

# Persistence

With a SnapshotStore configured, the store persists {user, isAuthenticated}
under the "auth-storage" key on every state change and re-hydrates it on
construction. The loading flag and error message are transient and never
persisted. Stored roles are re-normalized on load, so snapshots written by
older schema versions cannot smuggle unrecognized role strings into state.

# Thread safety

Store is safe for concurrent use. Concurrent Login calls are serialized by
a generation counter: only the most recent call commits its result, earlier
in-flight completions are discarded.
*/
package authsdk
