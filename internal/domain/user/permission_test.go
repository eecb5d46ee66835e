package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorCan(t *testing.T) {
	empID := "emp-1"

	tests := []struct {
		name       string
		actor      Actor
		permission Permission
		want       bool
	}{
		{"owner has everything", Actor{Role: RoleOwner}, PermissionCallAttendanceConfigure, true},
		{"admin flag bypasses role", Actor{Role: RoleEmployee, IsAdmin: true}, PermissionCallAttendanceManualUpdate, true},
		{"manager can manual update", Actor{Role: RoleManager}, PermissionCallAttendanceManualUpdate, true},
		{"team leader cannot by role", Actor{Role: RoleTeamLeader, EmployeeID: &empID}, PermissionCallAttendanceManualUpdate, false},
		{"integration ingests", Actor{Role: RoleIntegration}, PermissionCallLogIngest, true},
		{"employee cannot configure", Actor{Role: RoleEmployee}, PermissionCallAttendanceConfigure, false},
		{"unknown role", Actor{Role: Role("ghost")}, PermissionCallAttendanceViewOwn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.Can(tt.permission))
		})
	}
}

func TestActorIsEmployee(t *testing.T) {
	id := "emp-7"
	assert.True(t, Actor{EmployeeID: &id}.IsEmployee("emp-7"))
	assert.False(t, Actor{EmployeeID: &id}.IsEmployee("emp-8"))
	assert.False(t, Actor{}.IsEmployee("emp-7"))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleIntegration.IsValid())
	assert.False(t, Role("pending").IsValid())
}
