package client

import "github.com/yeremiapane/facilities-app/models"

// Capability names a gated feature. Views and the navigation menu share the
// same capability check instead of repeating role comparisons.
type Capability string

const (
	CapRaiseQuery    Capability = "raise_query"
	CapWorkQueries   Capability = "work_queries"
	CapManageUsers   Capability = "manage_users"
	CapManageVenues  Capability = "manage_venues"
	CapAssignWorkers Capability = "assign_workers"
	CapViewAnalytics Capability = "view_analytics"
)

var roleCapabilities = map[string][]Capability{
	models.RoleStudent: {CapRaiseQuery},
	models.RoleWorker:  {CapRaiseQuery, CapWorkQueries},
	models.RoleAdmin: {
		CapRaiseQuery, CapWorkQueries, CapManageUsers,
		CapManageVenues, CapAssignWorkers, CapViewAnalytics,
	},
}

// Can reports whether the signed-in user holds the capability.
func (s *Session) Can(capability Capability) bool {
	user := s.User()
	if user == nil {
		return false
	}
	for _, c := range roleCapabilities[user.Role] {
		if c == capability {
			return true
		}
	}
	return false
}

// Decision tells the caller what a guarded route should do.
type Decision int

const (
	RenderLoading Decision = iota
	Render
	RedirectLogin
	RedirectDashboard
)

const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

// routeCapability maps routes that need more than authentication to the
// capability they require. Routes absent from the map only need a session.
var routeCapability = map[string]Capability{
	"/admin/users":     CapManageUsers,
	"/admin/venues":    CapManageVenues,
	"/admin/analytics": CapViewAnalytics,
	"/worker/queue":    CapWorkQueries,
}

// Decide resolves what to do for a route given the current session. While the
// session is still loading nothing renders and nothing redirects; an
// authenticated user landing on the login route is sent to the dashboard.
func Decide(route string, s *Session) Decision {
	if s.Loading() {
		return RenderLoading
	}
	if route == RouteLogin {
		if s.IsAuthenticated() {
			return RedirectDashboard
		}
		return Render
	}
	if !s.IsAuthenticated() {
		return RedirectLogin
	}
	if required, gated := routeCapability[route]; gated && !s.Can(required) {
		return RedirectDashboard
	}
	return Render
}

// NavItem is one entry in the navigation menu.
type NavItem struct {
	Label string
	Route string
}

var allNavItems = []struct {
	item NavItem
	cap  Capability
}{
	{NavItem{"Dashboard", RouteDashboard}, ""},
	{NavItem{"Raise Query", "/queries/new"}, CapRaiseQuery},
	{NavItem{"My Queue", "/worker/queue"}, CapWorkQueries},
	{NavItem{"Users", "/admin/users"}, CapManageUsers},
	{NavItem{"Venues", "/admin/venues"}, CapManageVenues},
	{NavItem{"Analytics", "/admin/analytics"}, CapViewAnalytics},
}

// NavItems returns the menu entries the signed-in user may see, in a fixed
// order. An unauthenticated session gets nothing.
func NavItems(s *Session) []NavItem {
	if s.Loading() || !s.IsAuthenticated() {
		return nil
	}
	items := make([]NavItem, 0, len(allNavItems))
	for _, entry := range allNavItems {
		if entry.cap == "" || s.Can(entry.cap) {
			items = append(items, entry.item)
		}
	}
	return items
}
