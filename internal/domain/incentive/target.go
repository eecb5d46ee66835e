package incentive

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryTargetDivisor turns a basic salary into a target in Lac.
var SalaryTargetDivisor = decimal.NewFromInt(1000)

// Target is an employee's sales target for one month, in Lac.
type Target struct {
	ID                string
	EmployeeID        string
	Month             time.Time // first day of month
	TargetAmount      decimal.Decimal
	AutoTargetAmount  *decimal.Decimal
	FinalTargetAmount decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AutoTarget derives a target from basicSalary. It is nil without a positive salary.
func AutoTarget(basicSalary *decimal.Decimal) *decimal.Decimal {
	if basicSalary == nil || !basicSalary.IsPositive() {
		return nil
	}
	auto := basicSalary.Div(SalaryTargetDivisor).Round(2)
	return &auto
}

// NewTarget builds the month's target. The final amount is the higher of
// the manual amount and the salary based one.
func NewTarget(employeeID string, month time.Time, manual decimal.Decimal, basicSalary *decimal.Decimal) Target {
	start, _ := MonthRange(month)
	t := Target{
		EmployeeID:        employeeID,
		Month:             start,
		TargetAmount:      manual,
		AutoTargetAmount:  AutoTarget(basicSalary),
		FinalTargetAmount: manual,
	}
	if t.AutoTargetAmount != nil && t.AutoTargetAmount.GreaterThan(manual) {
		t.FinalTargetAmount = *t.AutoTargetAmount
	}
	return t
}
