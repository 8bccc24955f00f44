package identity_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	httpapi "github.com/northfit/installops/internal/identity/http"
	"github.com/northfit/installops/internal/identity/metrics"
	"github.com/northfit/installops/internal/identity/service"
	"github.com/northfit/installops/internal/identity/store/drivers/sqlite"
)

/*
 * End-to-end tests for the identity service. The whole stack runs
 * in-process: a real sqlite store behind the real router, exercised
 * through the public SDK the way a frontend host would.
 */

const (
	adminName     = "Administrator"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"

	cookieName = "sid"
)

// startServer boots the full HTTP stack against a throwaway database,
// seeds the admin account, and returns the test server.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	bootstrap := &service.BootstrapService{
		Store:         st,
		Logger:        slog.Default(),
		AdminName:     adminName,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}
	require.NoError(t, bootstrap.Seed(context.Background()))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	router := httpapi.NewRouter(cookieName, false, "e2e", st, collector, reg, slog.Default())
	router.AuthService = &service.AuthService{
		Store:       st,
		TokenSecret: []byte("e2e-test-secret"),
		SessionTTL:  time.Hour,
		Metrics:     collector,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}
