package access

// State is the UI-level lifecycle of the console.
//
//	Initializing ──load──▶ Unauthenticated | AuthenticatedAsAdmin | AuthenticatedAsSuperAdmin
//	AuthenticatedAs* ──logout──▶ Unauthenticated
//	Unauthenticated ──login──▶ AuthenticatedAs*
//
// There is no transition back to Initializing.
type State uint8

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticatedAsAdmin
	StateAuthenticatedAsSuperAdmin
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedAsAdmin:
		return "authenticated_admin"
	case StateAuthenticatedAsSuperAdmin:
		return "authenticated_super_admin"
	default:
		return "unknown"
	}
}

// Authenticated reports whether s is one of the AuthenticatedAs* states.
func (s State) Authenticated() bool {
	return s == StateAuthenticatedAsAdmin || s == StateAuthenticatedAsSuperAdmin
}

func stateForRole(r Role) State {
	switch r {
	case RoleAdmin:
		return StateAuthenticatedAsAdmin
	case RoleSuperAdmin:
		return StateAuthenticatedAsSuperAdmin
	default:
		return StateUnauthenticated
	}
}
