package http

import (
	"net/http"
	"time"

	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/httpx"
)

// LivezHandler is the liveness probe. It always returns 200 while the
// process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
