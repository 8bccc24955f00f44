package http

import (
	"net/http"

	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/httpx"
)

// MeHandler serves GET /v1/auth/me. It runs behind the session middleware,
// so the identity is already on the request context. The role goes out
// exactly as stored; clients normalize it themselves.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := httpx.UserIDFromContext(r.Context())
		if userID == "" {
			authsdk.ErrUnauthorized.WriteError(w)
			return
		}
		role := httpx.RoleFromContext(r.Context())

		httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{
			ID:   userID,
			Role: role,
		})
	}
}
