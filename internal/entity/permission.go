package entity

// Permission is a capability granted through a role.
type Permission string

const (
	PermRead  Permission = "read"
	PermWrite Permission = "write"
	PermAdmin Permission = "admin"
)

var rolePermissions = map[string][]Permission{
	RoleAdmin:  {PermRead, PermWrite, PermAdmin},
	RoleWriter: {PermRead, PermWrite},
	RoleReader: {PermRead},
}

// RoleHas reports whether the named role carries perm. Unknown roles carry nothing.
func RoleHas(role string, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RolesWith returns the role names that carry perm, in a stable order.
func RolesWith(perm Permission) []string {
	var roles []string
	for _, role := range []string{RoleAdmin, RoleWriter, RoleReader} {
		if RoleHas(role, perm) {
			roles = append(roles, role)
		}
	}
	return roles
}
