package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                 string
	UserID             *string
	EmployeeCode       string
	FullName           string
	Designation        *string
	ReportingManagerID *string
	EmploymentStatus   EmploymentStatus
	BasicSalary        *decimal.Decimal
	HireDate           time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// ReportsTo checks if managerID is the employee's direct reporting manager
func (e Employee) ReportsTo(managerID string) bool {
	return e.ReportingManagerID != nil && *e.ReportingManagerID == managerID
}
