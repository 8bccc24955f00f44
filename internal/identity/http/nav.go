package http

import (
	"net/http"

	"github.com/northfit/installops/internal/identity/service"
	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/httpx"
	"github.com/northfit/installops/pkg/rbac"
)

// NavHandler serves GET /v1/nav. It returns the navigation and command
// palette entries visible to the authenticated user's role, optionally
// filtered by the q query parameter.
type NavHandler struct {
	NavService service.NavService
}

type navResponse struct {
	Items []authsdk.NavItem `json:"items"`
}

func (h *NavHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := httpx.RoleFromContext(r.Context())
	if httpx.UserIDFromContext(r.Context()) == "" {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	items := h.NavService.Search(rbac.Normalize(role), r.URL.Query().Get("q"))
	httpx.WriteJSON(w, http.StatusOK, navResponse{Items: items})
}
