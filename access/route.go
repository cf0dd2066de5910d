package access

// Route identifies a console destination. Ordinals follow the drawer order.
type Route uint8

const (
	RouteLogin Route = iota
	RouteDashboard
	RouteUsers
	RouteBookings
	RouteRestaurants
	RouteAdmins
	RouteReviews
	RouteSettings
	routeCount
)

var routeNames = [routeCount]string{
	RouteLogin:       "Login",
	RouteDashboard:   "Dashboard",
	RouteUsers:       "Users",
	RouteBookings:    "Bookings",
	RouteRestaurants: "Restaurants",
	RouteAdmins:      "Admins",
	RouteReviews:     "Reviews",
	RouteSettings:    "Settings",
}

// AllRoutes returns every known route in drawer order.
func AllRoutes() []Route {
	out := make([]Route, 0, routeCount)
	for r := Route(0); r < routeCount; r++ {
		out = append(out, r)
	}
	return out
}

// ParseRoute maps a route name to a [Route]. Matching is exact.
func ParseRoute(name string) (Route, bool) {
	for r := Route(0); r < routeCount; r++ {
		if routeNames[r] == name {
			return r, true
		}
	}
	return 0, false
}

func (r Route) String() string {
	if r >= routeCount {
		return "Unknown"
	}
	return routeNames[r]
}

// Valid reports whether r is one of the known routes.
func (r Route) Valid() bool {
	return r < routeCount
}
