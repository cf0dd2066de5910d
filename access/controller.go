package access

import (
	"strings"

	"github.com/MrEthical07/goConsole/session"
)

// View is the resolved access decision for one session. The zero value is the
// Initializing placeholder: no routes, nothing accessible.
type View struct {
	State         State
	Role          Role
	InitialRoute  Route
	Routes        RouteSet
	Authenticated bool
}

// NavigableRoutes lists the reachable routes in drawer order.
func (v View) NavigableRoutes() []Route {
	return v.Routes.Routes()
}

// CanAccess reports whether route is reachable from v.
func (v View) CanAccess(route Route) bool {
	return v.Routes.Has(route)
}

// MenuRoutes is what the sidebar offers: the navigable routes, minus Login once
// authenticated.
func (v View) MenuRoutes() []Route {
	if v.Authenticated {
		return v.Routes.Remove(RouteLogin).Routes()
	}
	return v.Routes.Routes()
}

// Controller resolves session records into views against a frozen [Policy].
type Controller struct {
	policy *Policy
}

// NewController creates a [Controller]. A nil policy selects [StandardPolicy].
func NewController(policy *Policy) *Controller {
	if policy == nil {
		policy = StandardPolicy()
	}
	return &Controller{policy: policy}
}

// Policy returns the table in use.
func (c *Controller) Policy() *Policy {
	return c.policy
}

// Unauthenticated returns the view for an absent session.
func Unauthenticated() View {
	return View{
		State:        StateUnauthenticated,
		Role:         RoleNone,
		InitialRoute: RouteLogin,
		Routes:       NewRouteSet(RouteLogin),
	}
}

// Resolve maps rec to a view. It never fails: a nil record, a blank token, or a role
// outside the policy all yield [Unauthenticated].
func (c *Controller) Resolve(rec *session.Record) View {
	if rec == nil || strings.TrimSpace(rec.Token) == "" {
		return Unauthenticated()
	}

	role, ok := ParseRole(rec.User.Role)
	if !ok {
		return Unauthenticated()
	}

	profile, ok := c.policy.Profile(role)
	if !ok {
		return Unauthenticated()
	}

	return View{
		State:         stateForRole(role),
		Role:          role,
		InitialRoute:  RouteDashboard,
		Routes:        profile.Add(RouteLogin),
		Authenticated: true,
	}
}

// RoleOf reports the recognized role carried by rec, if any.
func (c *Controller) RoleOf(rec *session.Record) (Role, bool) {
	v := c.Resolve(rec)
	return v.Role, v.Authenticated
}

// CanAccess reports whether route is reachable from v.
func (c *Controller) CanAccess(v View, route Route) bool {
	return v.CanAccess(route)
}
