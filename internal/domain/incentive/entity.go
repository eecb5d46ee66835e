package incentive

import (
	"time"

	"github.com/shopspring/decimal"
)

// LacUnit is the number of currency units in one Lac.
var LacUnit = decimal.NewFromInt(100000)

// ToLac converts a currency amount to Lac.
func ToLac(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(LacUnit)
}

// Slab is an inclusive band of Lac with a flat rate per Lac.
// A nil MaxAmount means unbounded above.
type Slab struct {
	ID         string
	MinAmount  decimal.Decimal
	MaxAmount  *decimal.Decimal
	RatePerLac decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
}

func (s Slab) IsUnbounded() bool {
	return s.MaxAmount == nil
}

// Width is max - min + 1 for a bounded slab.
func (s Slab) Width() decimal.Decimal {
	if s.MaxAmount == nil {
		return decimal.Zero
	}
	return s.MaxAmount.Sub(s.MinAmount).Add(decimal.NewFromInt(1))
}

func (s Slab) Label() string {
	if s.MaxAmount == nil {
		return s.MinAmount.String() + "+"
	}
	return s.MinAmount.String() + "-" + s.MaxAmount.String()
}

type LoanType struct {
	ID           string
	Name         string
	PointsPerLac decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
}

// Points scores a loan amount given in currency units.
func (l LoanType) Points(amount decimal.Decimal) decimal.Decimal {
	return ToLac(amount).Mul(l.PointsPerLac)
}

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "NEW"
	LeadStatusInProgress LeadStatus = "IN_PROGRESS"
	LeadStatusApproved   LeadStatus = "APPROVED"
	LeadStatusRejected   LeadStatus = "REJECTED"
	LeadStatusDisbursed  LeadStatus = "DISBURSED"
)

var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:        {LeadStatusInProgress, LeadStatusRejected},
	LeadStatusInProgress: {LeadStatusApproved, LeadStatusRejected},
	LeadStatusApproved:   {LeadStatusDisbursed, LeadStatusRejected},
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusInProgress, LeadStatusApproved, LeadStatusRejected, LeadStatusDisbursed:
		return true
	}
	return false
}

// IsTerminal reports statuses with no outgoing transition.
func (s LeadStatus) IsTerminal() bool {
	return len(leadTransitions[s]) == 0
}

func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Lead struct {
	ID           string
	EmployeeID   string
	LoanTypeID   string
	CustomerName string
	LoanAmount   decimal.Decimal
	Status       LeadStatus
	DisbursedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	LoanTypeName *string
	PointsPerLac *decimal.Decimal
}

func (l Lead) AmountLac() decimal.Decimal {
	return ToLac(l.LoanAmount)
}

// Calculation is the stored incentive for one employee and month.
type Calculation struct {
	ID                   string
	EmployeeID           string
	Month                time.Time // first day of month
	TotalDisbursedAmount decimal.Decimal
	TotalPoints          decimal.Decimal
	IncentiveAmount      decimal.Decimal
	WaiverPercentage     decimal.Decimal
	FinalIncentive       decimal.Decimal
	CalculatedAt         time.Time
}

// BreakdownLine is the share of an amount attributed to one slab.
type BreakdownLine struct {
	Slab      Slab
	Portion   decimal.Decimal
	Incentive decimal.Decimal
}

type Breakdown struct {
	AmountLac decimal.Decimal
	Lines     []BreakdownLine
	Total     decimal.Decimal
}

// MonthRange returns [first day, first day of next month).
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
