// internal/app/system/authz/roles.go
package authz

import "strings"

// Role values. A user document with an empty role is "pending": the
// account exists but cannot sign in until an administrator promotes it.
const (
	RoleNationalAdmin = "national_admin"
	RoleStateAdmin    = "state_admin"
	RoleFieldOfficer  = "field_officer"
	RoleME            = "m_e"
	RoleFinance       = "finance"
	RoleDonor         = "donor"
)

// AllRoles lists every assignable role.
var AllRoles = []string{
	RoleNationalAdmin,
	RoleStateAdmin,
	RoleFieldOfficer,
	RoleME,
	RoleFinance,
	RoleDonor,
}

// Role sets consumed by the route middleware. Donor is deliberately
// absent from StaffRoles: donors get aggregate dashboard figures, never
// individual beneficiary records.
var (
	StaffRoles     = []string{RoleNationalAdmin, RoleStateAdmin, RoleFieldOfficer, RoleME, RoleFinance}
	FieldWriters   = []string{RoleNationalAdmin, RoleStateAdmin, RoleFieldOfficer}
	FinanceWriters = []string{RoleNationalAdmin, RoleFinance}
	AuditReaders   = []string{RoleNationalAdmin, RoleME}
)

// ValidRole reports whether the value is one of the fixed role
// enumeration. The empty (pending) role is not a valid assignment target
// here; use ValidRoleOrPending when clearing a role is allowed.
func ValidRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

// ValidRoleOrPending accepts the empty pending role as well.
func ValidRoleOrPending(role string) bool {
	return strings.TrimSpace(role) == "" || ValidRole(role)
}

