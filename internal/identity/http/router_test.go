package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/northfit/installops/internal/identity/domain"
	"github.com/northfit/installops/internal/identity/metrics"
	"github.com/northfit/installops/internal/identity/service"
	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/internal/identity/store/drivers/sqlite"
	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/cryptox"
	"github.com/northfit/installops/pkg/idx"
	"github.com/northfit/installops/pkg/rbac"
)

const testCookie = "sid"

type testEnv struct {
	router *Router
	store  store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	r := NewRouter(testCookie, false, "test", st, collector, reg, slog.Default())
	r.AuthService = &service.AuthService{
		Store:       st,
		TokenSecret: []byte("test-secret"),
		SessionTTL:  time.Hour,
		Metrics:     collector,
	}
	r.ApplyRoutes()

	return &testEnv{router: r, store: st}
}

func (e *testEnv) seedUser(t *testing.T, email, password string, role rbac.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test User",
		Email:        email,
		Role:         role,
		Status:       domain.UserStatusActive,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	body, err := json.Marshal(authsdk.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			require.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", "pw12345678", rbac.RoleAdmin)

	t.Run("success sets cookie", func(t *testing.T) {
		c := env.login(t, "admin@example.com", "pw12345678")
		require.NotEmpty(t, c.Value)
	})

	t.Run("bad credentials", func(t *testing.T) {
		body, _ := json.Marshal(authsdk.LoginRequest{Email: "admin@example.com", Password: "nope"})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var apiErr authsdk.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		require.Equal(t, "invalid_credentials", apiErr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte(`{"email":"a@b.c"}`)))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := env.seedUser(t, "manager@example.com", "pw12345678", rbac.RoleStoreManager)
	cookie := env.login(t, "manager@example.com", "pw12345678")

	t.Run("with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var me authsdk.MeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		require.Equal(t, u.ID, me.ID)
		require.Equal(t, "STORE_MANAGER", me.Role)
	})

	t.Run("without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "garbage"})
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "crew@example.com", "pw12345678", rbac.RoleCrew)
	cookie := env.login(t, "crew@example.com", "pw12345678")

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The cookie is cleared.
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			require.Empty(t, c.Value)
			require.Negative(t, c.MaxAge)
			cleared = true
		}
	}
	require.True(t, cleared)

	// The old session no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout without any cookie is still a 204.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNavEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.seedUser(t, "crew@example.com", "pw12345678", rbac.RoleCrew)
	env.seedUser(t, "admin@example.com", "pw12345678", rbac.RoleAdmin)

	getNav := func(t *testing.T, cookie *http.Cookie, query string) []authsdk.NavItem {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/v1/nav"+query, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []authsdk.NavItem `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Items
	}

	adminCookie := env.login(t, "admin@example.com", "pw12345678")
	crewCookie := env.login(t, "crew@example.com", "pw12345678")

	t.Run("admin sees more than crew", func(t *testing.T) {
		admin := getNav(t, adminCookie, "")
		crew := getNav(t, crewCookie, "")
		require.Greater(t, len(admin), len(crew))
	})

	t.Run("query filters items", func(t *testing.T) {
		items := getNav(t, adminCookie, "?q=audit")
		require.Len(t, items, 1)
		require.Equal(t, "page-audit", items[0].ID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/nav", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("livez", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var h authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.Equal(t, "ok", h.Status)
		require.Equal(t, "test", h.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var h authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
		require.NotNil(t, h.Checks)
		require.Equal(t, "ok", h.Checks.Database)
	})

	t.Run("metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
