package httpx

import (
	"context"
	"net/http"

	"github.com/northfit/installops/pkg/slogx"
)

// Identity describes who a session credential belongs to.
type Identity struct {
	UserID    string
	Role      string
	SessionID string
}

// Identifier resolves a raw session token (the sid cookie value) to the
// identity it represents. The identity service's AuthService implements it.
type Identifier interface {
	Identify(ctx context.Context, token string) (Identity, error)
}

// SessionAuthn authenticates requests by the named session cookie. Requests
// without a live session receive 401; on success the identity is attached
// to the request context.
func SessionAuthn(cookieName string, ident Identifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w, "missing session cookie")
				return
			}

			id, err := ident.Identify(ctx, cookie.Value)
			if err != nil {
				log.Warn("session identify failed", "err", err)
				writeUnauthorized(w, "session is invalid or expired")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
			ctx = context.WithValue(ctx, CtxKeyRole, id.Role)
			ctx = context.WithValue(ctx, CtxKeySessionID, id.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"code":    "unauthorized",
		"message": msg,
	})
}
