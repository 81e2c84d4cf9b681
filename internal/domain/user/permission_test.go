package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionSettingsManage))
	assert.False(t, HasPermission(RoleManager, PermissionSettingsManage))
	assert.True(t, HasPermission(RoleManager, PermissionHourBankClose))
	assert.True(t, HasPermission(RoleEmployee, PermissionPunchCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionReportViewAll))
	assert.False(t, HasPermission(RolePending, PermissionPunchCreate))
	assert.False(t, HasPermission(Role("intern"), PermissionPunchCreate))
}

func TestPrincipal_CanAccessUser(t *testing.T) {
	employee := Principal{UserID: "u-1", Role: RoleEmployee}
	assert.True(t, employee.CanAccessUser("u-1", PermissionReportViewOwn, PermissionReportViewAll))
	assert.False(t, employee.CanAccessUser("u-2", PermissionReportViewOwn, PermissionReportViewAll))

	manager := Principal{UserID: "m-1", Role: RoleManager}
	assert.True(t, manager.CanAccessUser("u-2", PermissionReportViewOwn, PermissionReportViewAll))

	pending := Principal{UserID: "p-1", Role: RolePending}
	assert.False(t, pending.CanAccessUser("p-1", PermissionReportViewOwn, PermissionReportViewAll))
	assert.False(t, Role("intern").IsValid())
	assert.True(t, RoleManager.IsValid())
}
