package access

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidPolicy is returned when a profile table names an unknown role or route.
var ErrInvalidPolicy = errors.New("invalid access policy")

// Policy is the frozen role profile table: one [RouteSet] per recognized role.
//
// Policy instances are built once during initialization and are read-only thereafter,
// so they are safe for concurrent use.
type Policy struct {
	name     string
	profiles map[Role]RouteSet
}

// StandardPolicy is the profile table observed in the console: super-admins manage
// admins and reviews, admins manage bookings.
func StandardPolicy() *Policy {
	return &Policy{
		name: "standard",
		profiles: map[Role]RouteSet{
			RoleSuperAdmin: NewRouteSet(RouteDashboard, RouteUsers, RouteRestaurants, RouteAdmins, RouteSettings, RouteReviews),
			RoleAdmin:      NewRouteSet(RouteDashboard, RouteUsers, RouteBookings, RouteRestaurants, RouteSettings),
		},
	}
}

// ExtendedPolicy is [StandardPolicy] with Bookings also visible to super-admins.
func ExtendedPolicy() *Policy {
	p := StandardPolicy()
	p.name = "extended"
	p.profiles[RoleSuperAdmin] = p.profiles[RoleSuperAdmin].Add(RouteBookings)
	return p
}

// PolicyByName returns a preset by name ("standard" or "extended").
func PolicyByName(name string) (*Policy, error) {
	switch name {
	case "", "standard":
		return StandardPolicy(), nil
	case "extended":
		return ExtendedPolicy(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidPolicy, name)
	}
}

// NewPolicy builds a custom table. Every recognized role must be present; Login may not
// be listed since it is always added by the controller.
func NewPolicy(name string, profiles map[Role][]Route) (*Policy, error) {
	p := &Policy{
		name:     name,
		profiles: make(map[Role]RouteSet, len(profiles)),
	}

	for role, routes := range profiles {
		if !role.Known() {
			return nil, fmt.Errorf("%w: role %d is not recognized", ErrInvalidPolicy, role)
		}
		var set RouteSet
		for _, r := range routes {
			if !r.Valid() {
				return nil, fmt.Errorf("%w: route %d is not known", ErrInvalidPolicy, r)
			}
			if r == RouteLogin {
				return nil, fmt.Errorf("%w: Login is implicit and cannot be granted", ErrInvalidPolicy)
			}
			set = set.Add(r)
		}
		if set.Len() == 0 {
			return nil, fmt.Errorf("%w: role %q has no routes", ErrInvalidPolicy, role)
		}
		p.profiles[role] = set
	}

	for _, role := range []Role{RoleAdmin, RoleSuperAdmin} {
		if _, ok := p.profiles[role]; !ok {
			return nil, fmt.Errorf("%w: missing profile for %q", ErrInvalidPolicy, role)
		}
	}

	return p, nil
}

// ParsePolicy builds a custom table from role and route names, as found in config files.
func ParsePolicy(name string, profiles map[string][]string) (*Policy, error) {
	typed := make(map[Role][]Route, len(profiles))

	roleNames := make([]string, 0, len(profiles))
	for roleName := range profiles {
		roleNames = append(roleNames, roleName)
	}
	sort.Strings(roleNames)

	for _, roleName := range roleNames {
		role, ok := ParseRole(roleName)
		if !ok {
			return nil, fmt.Errorf("%w: role %q is not recognized", ErrInvalidPolicy, roleName)
		}
		for _, routeName := range profiles[roleName] {
			r, ok := ParseRoute(routeName)
			if !ok {
				return nil, fmt.Errorf("%w: route %q is not known", ErrInvalidPolicy, routeName)
			}
			typed[role] = append(typed[role], r)
		}
	}

	return NewPolicy(name, typed)
}

// Name returns the preset or custom name of the table.
func (p *Policy) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Profile returns the routes granted to role, excluding the implicit Login.
func (p *Policy) Profile(role Role) (RouteSet, bool) {
	if p == nil {
		return 0, false
	}
	set, ok := p.profiles[role]
	return set, ok
}

// Roles lists the roles with a profile, admin first.
func (p *Policy) Roles() []Role {
	if p == nil {
		return nil
	}
	var out []Role
	for _, role := range []Role{RoleAdmin, RoleSuperAdmin} {
		if _, ok := p.profiles[role]; ok {
			out = append(out, role)
		}
	}
	return out
}
