package incentive

import (
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SlabInput struct {
	MinAmount  decimal.Decimal  `json:"min_amount"`
	MaxAmount  *decimal.Decimal `json:"max_amount,omitempty"`
	RatePerLac decimal.Decimal  `json:"rate_per_lac"`
}

type ReplaceSlabsRequest struct {
	Slabs []SlabInput `json:"slabs"`
}

// ToSlabs returns the inputs as sorted slabs.
func (r ReplaceSlabsRequest) ToSlabs() []Slab {
	slabs := make([]Slab, 0, len(r.Slabs))
	for _, in := range r.Slabs {
		slabs = append(slabs, Slab{
			MinAmount:  in.MinAmount,
			MaxAmount:  in.MaxAmount,
			RatePerLac: in.RatePerLac,
			IsActive:   true,
		})
	}
	SortSlabs(slabs)
	return slabs
}

func (r *ReplaceSlabsRequest) Validate() error {
	return ValidateSlabSet(r.ToSlabs())
}

type SlabResponse struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	MinAmount  decimal.Decimal  `json:"min_amount"`
	MaxAmount  *decimal.Decimal `json:"max_amount"`
	RatePerLac decimal.Decimal  `json:"rate_per_lac"`
}

type PreviewRequest struct {
	AmountLac        decimal.Decimal  `json:"amount_lac"`
	WaiverPercentage *decimal.Decimal `json:"waiver_percentage,omitempty"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.AmountLac.IsPositive() {
		errs.Add("amount_lac", "must be greater than 0")
	}
	validateWaiver(&errs, r.WaiverPercentage)
	return errs.Err()
}

type BreakdownLineResponse struct {
	Slab       string          `json:"slab"`
	Portion    decimal.Decimal `json:"portion_lac"`
	RatePerLac decimal.Decimal `json:"rate_per_lac"`
	Incentive  decimal.Decimal `json:"incentive"`
}

type PreviewResponse struct {
	AmountLac        decimal.Decimal         `json:"amount_lac"`
	Total            decimal.Decimal         `json:"total"`
	WaiverPercentage decimal.Decimal         `json:"waiver_percentage"`
	FinalAmount      decimal.Decimal         `json:"final_amount"`
	Breakdown        []BreakdownLineResponse `json:"breakdown"`
}

type CreateLoanTypeRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	PointsPerLac decimal.Decimal `json:"points_per_lac"`
}

func (r *CreateLoanTypeRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.Name) && len(errs) == 0 {
		errs.Add("name", "is required")
	}
	if r.PointsPerLac.IsNegative() {
		errs.Add("points_per_lac", "must be greater than or equal to 0")
	}
	return errs.Err()
}

type LoanTypeResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PointsPerLac decimal.Decimal `json:"points_per_lac"`
	IsActive     bool            `json:"is_active"`
}

type CreateLeadRequest struct {
	EmployeeID   string          `json:"employee_id" validate:"required"`
	LoanTypeID   string          `json:"loan_type_id" validate:"required"`
	CustomerName string          `json:"customer_name" validate:"required,max=200"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
}

func (r *CreateLeadRequest) Validate() error {
	errs := validator.Struct(r)
	if !r.LoanAmount.IsPositive() {
		errs.Add("loan_amount", "must be greater than 0")
	}
	return errs.Err()
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW IN_PROGRESS APPROVED REJECTED DISBURSED"`
}

func (r *UpdateLeadStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type LeadFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Month      *string `json:"month,omitempty"` // YYYY-MM on created_at

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeadFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Status != nil && !LeadStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: NEW, IN_PROGRESS, APPROVED, REJECTED, DISBURSED")
	}
	if f.Month != nil {
		if _, ok := validator.IsValidMonth(*f.Month); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type LeadResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	LoanTypeID   string          `json:"loan_type_id"`
	LoanTypeName *string         `json:"loan_type_name,omitempty"`
	CustomerName string          `json:"customer_name"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	AmountLac    decimal.Decimal `json:"amount_lac"`
	Points       decimal.Decimal `json:"points"`
	Status       string          `json:"status"`
	DisbursedAt  *string         `json:"disbursed_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type ListLeadResponse struct {
	Items      []LeadResponse `json:"items"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type CalculateRequest struct {
	EmployeeID       string           `json:"employee_id" validate:"required"`
	Month            string           `json:"month" validate:"required,datetime=2006-01"`
	WaiverPercentage *decimal.Decimal `json:"waiver_percentage,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	errs := validator.Struct(r)
	validateWaiver(&errs, r.WaiverPercentage)
	return errs.Err()
}

type BulkCalculateRequest struct {
	Month            string           `json:"month" validate:"required,datetime=2006-01"`
	EmployeeIDs      []string         `json:"employee_ids,omitempty"`
	WaiverPercentage *decimal.Decimal `json:"waiver_percentage,omitempty"`
}

func (r *BulkCalculateRequest) Validate() error {
	errs := validator.Struct(r)
	validateWaiver(&errs, r.WaiverPercentage)
	return errs.Err()
}

type CalculationResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	Month                string          `json:"month"`
	TotalDisbursedAmount decimal.Decimal `json:"total_disbursed_amount"`
	TotalPoints          decimal.Decimal `json:"total_points"`
	IncentiveAmount      decimal.Decimal `json:"incentive_amount"`
	WaiverPercentage     decimal.Decimal `json:"waiver_percentage"`
	FinalIncentive       decimal.Decimal `json:"final_incentive"`
	CalculatedAt         string          `json:"calculated_at"`
}

type CalculationOutcome struct {
	EmployeeID  string               `json:"employee_id"`
	Calculation *CalculationResponse `json:"calculation,omitempty"`
	Error       string               `json:"error,omitempty"`
}

type BulkCalculateResult struct {
	Month     string               `json:"month"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Details   []CalculationOutcome `json:"details"`
}

type CalculationFilter struct {
	Month      string  `json:"month"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (f *CalculationFilter) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidMonth(f.Month); !ok {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	return errs.Err()
}

type SetTargetRequest struct {
	EmployeeID   string          `json:"employee_id" validate:"required"`
	Month        string          `json:"month" validate:"required,datetime=2006-01"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

func (r *SetTargetRequest) Validate() error {
	errs := validator.Struct(r)
	if r.TargetAmount.LessThan(decimal.New(1, -2)) {
		errs.Add("target_amount", "must be at least 0.01")
	}
	return errs.Err()
}

type TargetFilter struct {
	Month      string  `json:"month"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (f *TargetFilter) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidMonth(f.Month); !ok {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	return errs.Err()
}

type TargetResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	Month             string           `json:"month"`
	TargetAmount      decimal.Decimal  `json:"target_amount"`
	AutoTargetAmount  *decimal.Decimal `json:"auto_target_amount"`
	FinalTargetAmount decimal.Decimal  `json:"final_target_amount"`
	UpdatedAt         string           `json:"updated_at"`
}

// AutoTargetRequest defaults to the current month when Month is empty.
type AutoTargetRequest struct {
	Month string `json:"month" validate:"omitempty,datetime=2006-01"`
}

func (r *AutoTargetRequest) Validate() error {
	return validator.Struct(r).Err()
}

type AutoTargetResult struct {
	Month   string `json:"month"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type PerformanceRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r *PerformanceRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	if end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}
	return errs.Err()
}

type PerformanceSummaryResponse struct {
	EmployeeID      string          `json:"employee_id"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TotalLeads      int             `json:"total_leads"`
	DisbursedLeads  int             `json:"disbursed_leads"`
	ConversionRate  float64         `json:"conversion_rate"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalPoints     decimal.Decimal `json:"total_points"`
	AverageLoanSize decimal.Decimal `json:"average_loan_size"`
	TotalCallDays   int             `json:"total_call_days"`
	PresentDays     int             `json:"present_days"`
	HalfDays        int             `json:"half_days"`
	AbsentDays      int             `json:"absent_days"`
	AttendanceRate  float64         `json:"attendance_rate"`
}

type EligibilityRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      string `json:"month" validate:"required,datetime=2006-01"`
}

func (r *EligibilityRequest) Validate() error {
	return validator.Struct(r).Err()
}

type EligibilityResponse struct {
	EmployeeID           string  `json:"employee_id"`
	Month                string  `json:"month"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	HalfDays             int     `json:"half_days"`
	AbsentDays           int     `json:"absent_days"`
	ManualUpdates        int     `json:"manual_updates"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	DisbursedLeads       int     `json:"disbursed_leads"`
	ThresholdPercentage  int     `json:"threshold_percentage"`
	Eligible             bool    `json:"eligible"`
	Reason               string  `json:"reason"`
}

func validateWaiver(errs *validator.ValidationErrors, waiver *decimal.Decimal) {
	if waiver == nil {
		return
	}
	if waiver.IsNegative() || waiver.GreaterThan(decimal.NewFromInt(100)) {
		errs.Add("waiver_percentage", "must be between 0 and 100")
	}
}
