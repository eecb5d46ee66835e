package callattendance

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
)

// AuthorityChecker grants manual-update authority to admins, to the
// employee's direct reporting manager and to roles holding
// call_attendance.manual_update.
type AuthorityChecker struct {
	employees employee.EmployeeRepository
}

func NewAuthorityChecker(employeeRepo employee.EmployeeRepository) *AuthorityChecker {
	return &AuthorityChecker{employees: employeeRepo}
}

func (a *AuthorityChecker) HasManualUpdateAuthority(ctx context.Context, actor user.Actor, employeeID string) (bool, error) {
	if actor.IsSuperAdmin() || actor.Can(user.PermissionCallAttendanceManualUpdate) {
		return true, nil
	}
	if actor.EmployeeID == nil {
		return false, nil
	}

	emp, err := a.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return false, nil
		}
		return false, err
	}
	return emp.ReportsTo(*actor.EmployeeID), nil
}
