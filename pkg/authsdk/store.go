package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/northfit/installops/pkg/rbac"
)

// SessionCookieGuidance is the user-facing message recorded when the
// session check comes back 401 right after a successful credential login.
// That combination almost always means the browser refused the cookie.
const SessionCookieGuidance = "Session could not be established. Please enable cookies and try again, or contact support if the problem persists."

// loginFallbackMessage is the last-resort error text for failures that
// carry no message of their own.
const loginFallbackMessage = "Login failed"

// IdentityAPI is the remote "who am I" accessor the store verifies sessions
// against. *Client implements it.
type IdentityAPI interface {
	Me(ctx context.Context) (MeResponse, error)
}

// StoreOptions configures a session Store.
type StoreOptions struct {
	// API is the remote identity accessor. Required.
	API IdentityAPI

	// Snapshots persists the {user, isAuthenticated} subset of state across
	// restarts. Optional; nil disables persistence.
	Snapshots SnapshotStore

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now defaults to time.Now. Tests override it.
	Now func() time.Time
}

// Store holds the client-side authentication session: the signed-in user
// (if any), the authentication flag, a loading flag for in-flight logins
// and the last login error. UI collaborators read it, never mutate it
// directly.
//
// Store is an explicit constructed container; callers pass it to whatever
// needs it rather than reaching for a package-level singleton.
type Store struct {
	api       IdentityAPI
	snapshots SnapshotStore
	log       *slog.Logger
	now       func() time.Time

	mu              sync.RWMutex
	user            *User
	isAuthenticated bool
	isLoading       bool
	errMsg          string

	// loginGen guards against stale login completions: each Login captures
	// the generation at entry and only commits if it is still current.
	loginGen uint64
}

// NewStore constructs a Store and re-hydrates any persisted snapshot,
// re-normalizing the stored role on the way in. A corrupt or missing
// snapshot yields the empty initial state.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.API == nil {
		return nil, errors.New("authsdk: StoreOptions.API is required")
	}
	s := &Store{
		api:       opts.API,
		snapshots: opts.Snapshots,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.restore()
	return s, nil
}

// restore merges a persisted snapshot into fresh default state. isLoading
// and the error message always start fresh regardless of what was written.
func (s *Store) restore() {
	if s.snapshots == nil {
		return
	}

	blob, err := s.snapshots.Get(StorageKey)
	if errors.Is(err, ErrNoSnapshot) {
		return
	}
	if err != nil {
		s.log.Warn("session snapshot read failed, starting fresh", "err", err)
		return
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.log.Warn("session snapshot is corrupt, starting fresh", "err", err)
		return
	}

	s.mu.Lock()
	s.user, s.isAuthenticated = mergeSnapshot(snap)
	s.mu.Unlock()
}

// persist writes the {user, isAuthenticated} subset. Persistence failures
// never fail the triggering operation; they are logged and the in-memory
// state stands.
func (s *Store) persist() {
	if s.snapshots == nil {
		return
	}

	s.mu.RLock()
	snap := snapshot{User: s.user.clone(), IsAuthenticated: s.isAuthenticated}
	s.mu.RUnlock()

	blob, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("session snapshot marshal failed", "err", err)
		return
	}
	if err := s.snapshots.Set(StorageKey, blob); err != nil {
		s.log.Warn("session snapshot write failed", "err", err)
	}
}

// Login verifies the session the login endpoint just established and
// materializes the local user record. The password parameter exists for
// call-site symmetry with the login form and is never transmitted; the
// credential exchange already happened out of band via Client.Login.
//
// On failure the error is both recorded in state for the UI and returned
// to the caller. A 401 from the session check maps to the fixed cookie
// guidance message; anything else surfaces the failure's own message.
func (s *Store) Login(ctx context.Context, email, password string) error {
	_ = password

	s.mu.Lock()
	s.loginGen++
	gen := s.loginGen
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()

	me, err := s.api.Me(ctx)
	if err != nil {
		s.mu.Lock()
		if gen == s.loginGen {
			s.user = nil
			s.isAuthenticated = false
			s.isLoading = false
			s.errMsg = loginErrorMessage(err)
		}
		s.mu.Unlock()
		s.persist()
		return err
	}

	now := s.now()
	user := &User{
		ID:        me.ID,
		Name:      "",
		Email:     email,
		Role:      rbac.Normalize(me.Role),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	if gen != s.loginGen {
		// A later Login or Logout superseded this call; discard the result.
		s.mu.Unlock()
		return nil
	}
	s.user = user
	s.isAuthenticated = true
	s.isLoading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.persist()
	return nil
}

// Logout unconditionally resets all session state to its empty defaults.
// Server-side session teardown is the Client's business, not the store's.
func (s *Store) Logout() {
	s.mu.Lock()
	s.loginGen++ // invalidate any in-flight login
	s.user = nil
	s.isAuthenticated = false
	s.isLoading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.persist()
}

// ClearError drops the recorded login error, leaving everything else as is.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// Initialize attempts a silent session restore against the identity
// endpoint, intended to run once at application startup. On success an
// already-known user (from a persisted snapshot) is kept rather than
// overwritten with blanks, though the role and updated_at are always
// refreshed from the accessor. On failure state is left untouched and the
// prior (user, isAuthenticated) pair is returned; an unauthenticated
// bootstrap is an expected outcome, not an anomaly.
func (s *Store) Initialize(ctx context.Context) (*User, bool) {
	me, err := s.api.Me(ctx)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.user.clone(), s.isAuthenticated
	}

	now := s.now()

	s.mu.Lock()
	if s.user == nil {
		s.user = &User{
			ID:        me.ID,
			Name:      "",
			Email:     "",
			Role:      rbac.Normalize(me.Role),
			Status:    StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		s.user.Role = rbac.Normalize(me.Role)
		s.user.UpdatedAt = now
	}
	s.isAuthenticated = true
	s.isLoading = false
	s.errMsg = ""
	user := s.user.clone()
	s.mu.Unlock()

	s.persist()
	return user, true
}

// User returns a copy of the current user, or nil when signed out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// IsAuthenticated reports whether a verified session is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// IsLoading reports whether a Login call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// Err returns the last recorded login error message, or "" when clear.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// HasPermission reports whether the current user's role grants the
// permission token. No user means false; unknown tokens mean false.
func (s *Store) HasPermission(permission string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return rbac.Allowed(s.user.Role, permission)
}

// HasRole reports whether the current user's normalized role equals role.
func (s *Store) HasRole(role rbac.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return rbac.Normalize(string(s.user.Role)) == role
}

// HasAnyRole reports whether the current user's normalized role is any of
// the given roles.
func (s *Store) HasAnyRole(roles ...rbac.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	current := rbac.Normalize(string(s.user.Role))
	for _, role := range roles {
		if current == role {
			return true
		}
	}
	return false
}

// loginErrorMessage picks the user-facing message for a failed login:
// the fixed cookie guidance for 401s, otherwise the server's message, the
// error's own text, then a hard-coded fallback, in that order.
func loginErrorMessage(err error) string {
	if IsUnauthorized(err) {
		return SessionCookieGuidance
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return loginFallbackMessage
}
