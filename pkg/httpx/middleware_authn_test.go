package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northfit/installops/pkg/httpx"
)

type fakeIdentifier struct {
	identity httpx.Identity
	err      error
}

func (f *fakeIdentifier) Identify(ctx context.Context, token string) (httpx.Identity, error) {
	if f.err != nil {
		return httpx.Identity{}, f.err
	}
	return f.identity, nil
}

func TestSessionAuthn(t *testing.T) {
	t.Parallel()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id":    httpx.UserIDFromContext(r.Context()),
			"role":       httpx.RoleFromContext(r.Context()),
			"session_id": httpx.SessionIDFromContext(r.Context()),
		})
	})

	t.Run("attaches identity to context", func(t *testing.T) {
		ident := &fakeIdentifier{identity: httpx.Identity{
			UserID:    "u1",
			Role:      "ADMIN",
			SessionID: "s1",
		}}
		handler := httpx.SessionAuthn("sid", ident)(echo)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"user_id":"u1"`)
		require.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
		require.Contains(t, rec.Body.String(), `"session_id":"s1"`)
	})

	t.Run("missing cookie", func(t *testing.T) {
		handler := httpx.SessionAuthn("sid", &fakeIdentifier{})(echo)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("identify failure", func(t *testing.T) {
		ident := &fakeIdentifier{err: errors.New("dead session")}
		handler := httpx.SessionAuthn("sid", ident)(echo)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "token"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
