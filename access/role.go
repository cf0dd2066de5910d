package access

// Role is the closed set of operator roles the console recognizes.
type Role uint8

const (
	// RoleNone stands for an absent or unrecognized role.
	RoleNone Role = iota
	// RoleAdmin is a restaurant admin.
	RoleAdmin
	// RoleSuperAdmin is a platform super-admin.
	RoleSuperAdmin
)

var roleNames = [...]string{
	RoleNone:       "",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super-admin",
}

// ParseRole maps the persisted role string to a [Role]. Matching is exact.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "super-admin":
		return RoleSuperAdmin, true
	default:
		return RoleNone, false
	}
}

// String returns the persisted form of the role, or "" for RoleNone.
func (r Role) String() string {
	if int(r) >= len(roleNames) {
		return ""
	}
	return roleNames[r]
}

// Known reports whether r is a recognized role.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
