package incentive

import (
	"context"
)

type IncentiveService interface {
	ListSlabs(ctx context.Context) ([]SlabResponse, error)
	ReplaceSlabs(ctx context.Context, req ReplaceSlabsRequest) ([]SlabResponse, error)
	PreviewIncentive(ctx context.Context, req PreviewRequest) (PreviewResponse, error)

	CreateLoanType(ctx context.Context, req CreateLoanTypeRequest) (LoanTypeResponse, error)
	ListLoanTypes(ctx context.Context) ([]LoanTypeResponse, error)

	CreateLead(ctx context.Context, req CreateLeadRequest) (LeadResponse, error)
	UpdateLeadStatus(ctx context.Context, id string, req UpdateLeadStatusRequest) (LeadResponse, error)
	ListLeads(ctx context.Context, filter LeadFilter) (ListLeadResponse, error)

	Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error)
	BulkCalculate(ctx context.Context, req BulkCalculateRequest) (BulkCalculateResult, error)
	ListCalculations(ctx context.Context, filter CalculationFilter) ([]CalculationResponse, error)

	SetTarget(ctx context.Context, req SetTargetRequest) (TargetResponse, error)
	ListTargets(ctx context.Context, filter TargetFilter) ([]TargetResponse, error)
	AutoCreateTargets(ctx context.Context, req AutoTargetRequest) (AutoTargetResult, error)

	PerformanceSummary(ctx context.Context, req PerformanceRequest) (PerformanceSummaryResponse, error)
	SalaryEligibility(ctx context.Context, req EligibilityRequest) (EligibilityResponse, error)
}
