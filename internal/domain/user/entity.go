package user

type Role string

const (
	RoleOwner       Role = "owner"       // Company owner - full access
	RoleManager     Role = "manager"     // Branch or sales manager
	RoleTeamLeader  Role = "team_leader" // Leads a telecalling team
	RoleEmployee    Role = "employee"    // Regular telecaller
	RoleIntegration Role = "integration" // Dialer or CRM pushing call logs
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Actor is the authenticated caller of an operation, passed explicitly into
// services instead of being read from request globals.
type Actor struct {
	UserID     string
	EmployeeID *string
	Role       Role
	IsAdmin    bool
	IPAddress  string
	UserAgent  string
}

// SystemActor is used by scheduled jobs and command line tools.
var SystemActor = Actor{
	UserID:  "system",
	Role:    RoleOwner,
	IsAdmin: true,
}

// IsSuperAdmin checks if actor bypasses permission checks
func (a Actor) IsSuperAdmin() bool {
	return a.IsAdmin || a.Role == RoleOwner
}

// Can checks if actor holds a permission through its role
func (a Actor) Can(permission Permission) bool {
	return a.IsSuperAdmin() || HasPermission(a.Role, permission)
}

// IsEmployee reports whether the actor is the given employee
func (a Actor) IsEmployee(employeeID string) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}
