package user

type Permission string

const (
	// Call logs
	PermissionCallLogIngest  Permission = "call_log.ingest"
	PermissionCallLogViewAll Permission = "call_log.view_all"

	// Call attendance
	PermissionCallAttendanceViewOwn      Permission = "call_attendance.view_own"
	PermissionCallAttendanceViewAll      Permission = "call_attendance.view_all"
	PermissionCallAttendanceManualUpdate Permission = "call_attendance.manual_update"
	PermissionCallAttendanceReconcile    Permission = "call_attendance.reconcile"
	PermissionCallAttendanceConfigure    Permission = "call_attendance.configure"
	PermissionCallAttendanceAuditView    Permission = "call_attendance.audit_view"

	// Incentives
	PermissionIncentiveViewOwn Permission = "incentive.view_own"
	PermissionIncentiveViewAll Permission = "incentive.view_all"
	PermissionIncentiveManage  Permission = "incentive.manage"

	// Leads
	PermissionLeadCreate Permission = "lead.create"
	PermissionLeadManage Permission = "lead.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionCallLogIngest,
		PermissionCallLogViewAll,
		PermissionCallAttendanceViewOwn,
		PermissionCallAttendanceViewAll,
		PermissionCallAttendanceManualUpdate,
		PermissionCallAttendanceReconcile,
		PermissionCallAttendanceConfigure,
		PermissionCallAttendanceAuditView,
		PermissionIncentiveViewOwn,
		PermissionIncentiveViewAll,
		PermissionIncentiveManage,
		PermissionLeadCreate,
		PermissionLeadManage,
	},
	RoleManager: {
		PermissionCallLogViewAll,
		PermissionCallAttendanceViewOwn,
		PermissionCallAttendanceViewAll,
		PermissionCallAttendanceManualUpdate,
		PermissionCallAttendanceReconcile,
		PermissionCallAttendanceAuditView,
		PermissionIncentiveViewOwn,
		PermissionIncentiveViewAll,
		PermissionLeadCreate,
		PermissionLeadManage,
	},
	RoleTeamLeader: {
		// Manual updates only for direct reports, resolved per employee
		PermissionCallLogViewAll,
		PermissionCallAttendanceViewOwn,
		PermissionCallAttendanceViewAll,
		PermissionIncentiveViewOwn,
		PermissionLeadCreate,
	},
	RoleEmployee: {
		PermissionCallAttendanceViewOwn,
		PermissionIncentiveViewOwn,
		PermissionLeadCreate,
	},
	RoleIntegration: {
		PermissionCallLogIngest,
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
