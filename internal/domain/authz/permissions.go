package authz

// Role names are compared case-sensitively against this vocabulary.
const (
	RoleSuperAdmin     = "Super Admin"
	RoleHRManager      = "HR Manager"
	RoleDepartmentHead = "Department Head"
	RoleEmployee       = "Employee"
)

const (
	PermManageEmployees   = "authentication.manage_employees"
	PermManageRoles       = "authentication.manage_roles"
	PermViewAttendance    = "attendance.view"
	PermManageAttendance  = "attendance.manage"
	PermViewLeave         = "leave.view"
	PermApproveLeave      = "leave.approve"
	PermViewPayroll       = "payroll.view"
	PermManagePayroll     = "payroll.manage"
	PermViewRecruitment   = "recruitment.view"
	PermManageRecruitment = "recruitment.manage"
)

var DefaultPermissions = []string{
	PermManageEmployees,
	PermManageRoles,
	PermViewAttendance,
	PermManageAttendance,
	PermViewLeave,
	PermApproveLeave,
	PermViewPayroll,
	PermManagePayroll,
	PermViewRecruitment,
	PermManageRecruitment,
}

// RolePermissions mirrors the backend's coarse grants and is used only
// for display (the admin roles page); the backend payload is the source
// of truth for the live Permission Set.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermViewAttendance,
		PermViewLeave,
		PermViewPayroll,
	},
	RoleDepartmentHead: {
		PermViewAttendance,
		PermManageAttendance,
		PermViewLeave,
		PermApproveLeave,
		PermViewPayroll,
	},
	RoleHRManager: {
		PermManageEmployees,
		PermViewAttendance,
		PermManageAttendance,
		PermViewLeave,
		PermApproveLeave,
		PermViewPayroll,
		PermManagePayroll,
		PermViewRecruitment,
		PermManageRecruitment,
	},
	RoleSuperAdmin: {
		PermManageEmployees,
		PermManageRoles,
		PermViewAttendance,
		PermManageAttendance,
		PermViewLeave,
		PermApproveLeave,
		PermViewPayroll,
		PermManagePayroll,
		PermViewRecruitment,
		PermManageRecruitment,
	},
}
