package incentive

import (
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
)

// EligibilityThresholdPercent is the minimum share of attended days, half
// days included, for salary eligibility.
const EligibilityThresholdPercent = 70

const (
	EligibilityReasonEligible      = "eligible for salary"
	EligibilityReasonNoAttendance  = "no attendance records found"
	EligibilityReasonLowAttendance = "attendance below threshold"
	EligibilityReasonNoDisbursals  = "no disbursed loans in the month"
)

// CheckEligibility requires attendance at or above the threshold and at
// least one disbursed lead.
func CheckEligibility(summary callattendance.EmployeeSummary, disbursedLeads int) (bool, string) {
	if summary.TotalDays == 0 {
		return false, EligibilityReasonNoAttendance
	}
	attended := summary.PresentDays + summary.HalfDays
	if attended*100 < EligibilityThresholdPercent*summary.TotalDays {
		return false, EligibilityReasonLowAttendance
	}
	if disbursedLeads == 0 {
		return false, EligibilityReasonNoDisbursals
	}
	return true, EligibilityReasonEligible
}
