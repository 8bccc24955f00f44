package http

import (
	"net/http"

	"github.com/northfit/installops/internal/identity/service"
	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. It revokes whatever session
// the cookie points at and clears the cookie. Missing or invalid cookies
// still get a 204 so logout is always safe to call.
type LogoutHandler struct {
	AuthService  *service.AuthService
	CookieName   string
	CookieSecure bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if c, err := r.Cookie(h.CookieName); err == nil && c.Value != "" {
		if err := h.AuthService.Logout(ctx, c.Value); err != nil {
			slogx.FromContext(ctx).Error("logout failed", "error", err)
			authsdk.ErrServerError.WriteError(w)
			return
		}
	}

	// Expire the cookie regardless of whether a session was found.
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
