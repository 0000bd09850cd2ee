package auth

import (
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestPolicySuperadmin(t *testing.T) {
	assert.True(t, Allowed(models.RoleSuperadmin, nil, CapManageTenants))
	assert.False(t, Allowed(models.RoleSuperadmin, nil, CapCommitSales))
	assert.False(t, Allowed(models.RoleSuperadmin, nil, CapManageCatalog))
}

func TestPolicyAdmin(t *testing.T) {
	for _, cap := range []Capability{
		CapManageStaff, CapManageCatalog, CapManageStock,
		CapCommitSales, CapManageClients, CapViewReports,
	} {
		assert.True(t, Allowed(models.RoleAdmin, nil, cap), string(cap))
	}
	assert.False(t, Allowed(models.RoleAdmin, nil, CapManageTenants))
}

func TestPolicyInventoryEmployee(t *testing.T) {
	sub := strPtr(models.SubRoleInventario)

	assert.True(t, Allowed(models.RoleEmployee, sub, CapManageCatalog))
	assert.True(t, Allowed(models.RoleEmployee, sub, CapManageStock))
	assert.False(t, Allowed(models.RoleEmployee, sub, CapCommitSales))
	assert.False(t, Allowed(models.RoleEmployee, sub, CapManageStaff))
}

func TestPolicySalesEmployee(t *testing.T) {
	sub := strPtr(models.SubRoleVentas)

	assert.True(t, Allowed(models.RoleEmployee, sub, CapCommitSales))
	assert.True(t, Allowed(models.RoleEmployee, sub, CapManageClients))
	assert.True(t, Allowed(models.RoleEmployee, sub, CapViewReports))
	assert.False(t, Allowed(models.RoleEmployee, sub, CapManageStock))
}

func TestPolicyEmployeeWithoutSubRole(t *testing.T) {
	assert.False(t, Allowed(models.RoleEmployee, nil, CapCommitSales))
}

func TestPolicyUnknownRole(t *testing.T) {
	assert.False(t, Allowed("ghost", nil, CapCommitSales))
}
