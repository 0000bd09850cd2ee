package auth

import "pos-service/internal/models"

// Capability names one permitted action group. Authorization is decided
// here, server-side; clients only present what the policy already permits.
type Capability string

const (
	CapManageTenants Capability = "manage_tenants"
	CapManageStaff   Capability = "manage_staff"
	CapManageCatalog Capability = "manage_catalog"
	CapManageStock   Capability = "manage_stock"
	CapCommitSales   Capability = "commit_sales"
	CapManageClients Capability = "manage_clients"
	CapViewReports   Capability = "view_reports"
)

// Allowed evaluates the capability policy for a role/sub-role pair:
// superadmins manage tenants and nothing inside them, admins do everything
// within their own tenant, employees are split by sub-role into inventory
// and sales duties.
func Allowed(role string, subRole *string, cap Capability) bool {
	switch role {
	case models.RoleSuperadmin:
		return cap == CapManageTenants

	case models.RoleAdmin:
		return cap != CapManageTenants

	case models.RoleEmployee:
		if subRole == nil {
			return false
		}
		switch *subRole {
		case models.SubRoleInventario:
			return cap == CapManageCatalog || cap == CapManageStock
		case models.SubRoleVentas:
			return cap == CapCommitSales || cap == CapManageClients || cap == CapViewReports
		}
	}
	return false
}
