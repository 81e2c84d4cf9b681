package user

type Role string

const (
	RoleOwner    Role = "owner"    // full access including settings
	RoleManager  Role = "manager"  // can view and close any user's day
	RoleEmployee Role = "employee" // punches and reads own data
	RolePending  Role = "pending"  // not yet onboarded
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Principal is the authenticated caller as read from the access token.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}

// CanAccessUser reports whether p may act on userID's data with the "view_all" style
// permission given, falling back to own-data access.
func (p Principal) CanAccessUser(userID string, own Permission, all Permission) bool {
	if userID == p.UserID {
		return p.Can(own) || p.Can(all)
	}
	return p.Can(all)
}
