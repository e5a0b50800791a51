package entity

// AdminRole separates day-to-day reviewers from operators who can manage
// other admin accounts.
type AdminRole int16

const (
	AdminRoleUnknown AdminRole = 0

	// AdminRoleAdmin can review access requests, manage documents and read
	// audit data.
	AdminRoleAdmin AdminRole = 1

	// AdminRoleSuperAdmin can additionally manage admin accounts.
	AdminRoleSuperAdmin AdminRole = 2
)

func AdminRoleFromString(str string) AdminRole {
	switch str {
	case "admin":
		return AdminRoleAdmin
	case "super_admin":
		return AdminRoleSuperAdmin
	default:
		return AdminRoleUnknown
	}
}

func (r AdminRole) String() string {
	switch r {
	case AdminRoleAdmin:
		return "admin"
	case AdminRoleSuperAdmin:
		return "super_admin"
	default:
		return "unknown"
	}
}

func (r AdminRole) IsUnknown() bool {
	return r != AdminRoleAdmin && r != AdminRoleSuperAdmin
}
