package user

type Permission string

const (
	// Punches
	PermissionPunchCreate Permission = "punch.create"

	// Reports
	PermissionReportViewOwn Permission = "report.view_own"
	PermissionReportViewAll Permission = "report.view_all"

	// Hour bank
	PermissionHourBankViewOwn Permission = "hourbank.view_own"
	PermissionHourBankViewAll Permission = "hourbank.view_all"
	PermissionHourBankClose   Permission = "hourbank.close"

	// Settings
	PermissionSettingsView   Permission = "settings.view"
	PermissionSettingsManage Permission = "settings.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPunchCreate,
		PermissionReportViewOwn,
		PermissionReportViewAll,
		PermissionHourBankViewOwn,
		PermissionHourBankViewAll,
		PermissionHourBankClose,
		PermissionSettingsView,
		PermissionSettingsManage,
	},
	RoleManager: {
		PermissionPunchCreate,
		PermissionReportViewOwn,
		PermissionReportViewAll,
		PermissionHourBankViewOwn,
		PermissionHourBankViewAll,
		PermissionHourBankClose,
		PermissionSettingsView,
	},
	RoleEmployee: {
		PermissionPunchCreate,
		PermissionReportViewOwn,
		PermissionHourBankViewOwn,
		PermissionSettingsView,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
