package auth

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleCEO      = "ceo"
	RoleAdmin    = "admin"
)

// AllRoles is the closed role enumeration in privilege-ascending order.
var AllRoles = []string{RoleEmployee, RoleHR, RoleManager, RoleCEO, RoleAdmin}

// reviewerRoles is the single authoritative reviewer-eligible set. Review
// rights, all-request visibility and role management are deliberately the
// same set; unknown role strings fall through to deny.
var reviewerRoles = map[string]bool{
	RoleHR:      true,
	RoleManager: true,
	RoleCEO:     true,
	RoleAdmin:   true,
}

func ValidRole(role string) bool {
	if role == RoleEmployee {
		return true
	}
	return reviewerRoles[role]
}

func CanReview(role string) bool {
	return reviewerRoles[role]
}

func CanViewAll(role string) bool {
	return reviewerRoles[role]
}

func CanChangeRole(role string) bool {
	return reviewerRoles[role]
}

const (
	PermProfilesRead      = "profiles.read"
	PermProfilesManage    = "profiles.manage"
	PermLeaveRead         = "leave.read"
	PermLeaveWrite        = "leave.write"
	PermLeaveApprove      = "leave.approve"
	PermLeaveReports      = "leave.reports"
	PermOnboardingRead    = "onboarding.read"
	PermOnboardingWrite   = "onboarding.write"
	PermContentRead       = "content.read"
	PermContentPublish    = "content.publish"
	PermCeoUpdatesPublish = "content.updates.publish"
	PermHrPoliciesPublish = "content.policies.publish"
	PermPerformanceRead   = "performance.read"
	PermPerformanceWrite  = "performance.write"
	PermNotificationsRead = "notifications.read"
	PermAuditRead         = "audit.read"
)

var employeePermissions = []string{
	PermProfilesRead,
	PermLeaveRead,
	PermLeaveWrite,
	PermOnboardingRead,
	PermOnboardingWrite,
	PermContentRead,
	PermPerformanceRead,
	PermNotificationsRead,
}

var reviewerPermissions = append([]string{
	PermProfilesManage,
	PermLeaveApprove,
	PermLeaveReports,
	PermContentPublish,
	PermPerformanceWrite,
	PermAuditRead,
}, employeePermissions...)

// RolePermissions is the static decision table consulted by the HTTP layer.
// CEO updates publish only from the ceo and admin roles, HR policies only
// from hr and admin; the shared PermContentPublish covers holidays.
var RolePermissions = map[string][]string{
	RoleEmployee: employeePermissions,
	RoleHR:       append([]string{PermHrPoliciesPublish}, reviewerPermissions...),
	RoleManager:  reviewerPermissions,
	RoleCEO:      append([]string{PermCeoUpdatesPublish}, reviewerPermissions...),
	RoleAdmin:    append([]string{PermCeoUpdatesPublish, PermHrPoliciesPublish}, reviewerPermissions...),
}

// HasPermission answers permission checks from the static table. Roles outside
// the table have no permissions at all.
func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
