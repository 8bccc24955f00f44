package http

import (
	"net/http"
	"time"

	"github.com/northfit/installops/internal/identity/store"
	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It checks that the database is
// reachable before declaring the service ready for traffic.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
