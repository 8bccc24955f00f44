package service

import (
	"strings"

	"github.com/northfit/installops/pkg/authsdk"
	"github.com/northfit/installops/pkg/rbac"
)

// navEntry is a registry row: a palette item plus the roles that may see it.
// Empty roles means visible to everyone.
type navEntry struct {
	item  authsdk.NavItem
	roles []rbac.Role
}

var navRegistry = []navEntry{
	// Pages
	{authsdk.NavItem{ID: "page-dashboard", Label: "Dashboard", Href: "/app/dashboard", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "page-orders", Label: "Orders", Href: "/app/orders", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "page-installations", Label: "Installations", Href: "/app/installations", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "page-calendar", Label: "Calendar", Href: "/app/calendar", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "page-reports", Label: "Reports", Href: "/app/admin/reports", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin}},
	{authsdk.NavItem{ID: "page-users", Label: "Users & Roles", Href: "/app/admin/users", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin}},
	{authsdk.NavItem{ID: "page-integrations", Label: "Integrations", Href: "/app/admin/integrations", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin}},
	{authsdk.NavItem{ID: "page-audit", Label: "Audit Log", Href: "/app/audit", Type: "page"},
		[]rbac.Role{rbac.RoleAdmin}},

	// Commands
	{authsdk.NavItem{ID: "cmd-new-order", Label: "New Order", Href: "/app/orders/new", Type: "command"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "cmd-new-installation", Label: "New Installation", Href: "/app/installations/new", Type: "command"},
		[]rbac.Role{rbac.RoleAdmin, rbac.RoleStoreManager}},
	{authsdk.NavItem{ID: "cmd-profile", Label: "Profile", Href: "/app/profile", Type: "command"}, nil},
	{authsdk.NavItem{ID: "cmd-settings", Label: "Settings", Href: "/app/settings", Type: "command"}, nil},

	// Help
	{authsdk.NavItem{ID: "help-centre", Label: "Help Centre", Href: "/help", Type: "help"}, nil},
	{authsdk.NavItem{ID: "help-shortcuts", Label: "Keyboard Shortcuts", Href: "/help#shortcuts", Type: "help"}, nil},
}

// NavService serves the role-filtered navigation and command palette
// registry. The registry is static; only the visibility varies per role.
type NavService struct{}

// For returns every registry item visible to the given role, in registry
// order.
func (NavService) For(role rbac.Role) []authsdk.NavItem {
	role = rbac.Normalize(string(role))
	items := make([]authsdk.NavItem, 0, len(navRegistry))
	for _, e := range navRegistry {
		if visibleTo(e, role) {
			items = append(items, e.item)
		}
	}
	return items
}

// Search filters the role-visible items with the same forgiving subsequence
// match the command palette uses: every query character must appear in the
// label, in order, case-insensitively. A blank query matches everything.
func (s NavService) Search(role rbac.Role, query string) []authsdk.NavItem {
	visible := s.For(role)
	if strings.TrimSpace(query) == "" {
		return visible
	}

	items := make([]authsdk.NavItem, 0, len(visible))
	for _, item := range visible {
		if fuzzyMatch(query, item.Label) {
			items = append(items, item)
		}
	}
	return items
}

func visibleTo(e navEntry, role rbac.Role) bool {
	if len(e.roles) == 0 {
		return true
	}
	for _, r := range e.roles {
		if r == role {
			return true
		}
	}
	return false
}

func fuzzyMatch(query, text string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	t := strings.ToLower(text)
	i := 0
	for j := 0; j < len(t) && i < len(q); j++ {
		if t[j] == q[i] {
			i++
		}
	}
	return i == len(q)
}
