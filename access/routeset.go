package access

import "strings"

// RouteSet is an ordered set of routes stored as a bitmask (bit = route ordinal).
type RouteSet uint64

// NewRouteSet builds a set from routes, ignoring unknown values.
func NewRouteSet(routes ...Route) RouteSet {
	var s RouteSet
	for _, r := range routes {
		s = s.Add(r)
	}
	return s
}

// Add returns s with r included.
func (s RouteSet) Add(r Route) RouteSet {
	if !r.Valid() {
		return s
	}
	return s | (1 << r)
}

// Remove returns s without r.
func (s RouteSet) Remove(r Route) RouteSet {
	if !r.Valid() {
		return s
	}
	return s &^ (1 << r)
}

// Has reports whether r is in s.
func (s RouteSet) Has(r Route) bool {
	if !r.Valid() {
		return false
	}
	return s&(1<<r) != 0
}

// Union returns the routes in either set.
func (s RouteSet) Union(o RouteSet) RouteSet {
	return s | o
}

// Routes lists the members in drawer order.
func (s RouteSet) Routes() []Route {
	out := make([]Route, 0, s.Len())
	for r := Route(0); r < routeCount; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of members.
func (s RouteSet) Len() int {
	n := 0
	for r := Route(0); r < routeCount; r++ {
		if s.Has(r) {
			n++
		}
	}
	return n
}

func (s RouteSet) String() string {
	routes := s.Routes()
	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}
