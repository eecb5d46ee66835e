package incentive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type IncentiveServiceImpl struct {
	tx            database.Transactor
	slabs         incentive.SlabRepository
	loanTypes     incentive.LoanTypeRepository
	leads         incentive.LeadRepository
	calculations  incentive.CalculationRepository
	targets       incentive.TargetRepository
	employees     employee.EmployeeRepository
	attendance    incentive.AttendanceReader
	calculator    *SlabCalculator
	defaultWaiver decimal.Decimal
	now           func() time.Time
}

func NewIncentiveService(
	tx database.Transactor,
	slabRepo incentive.SlabRepository,
	loanTypeRepo incentive.LoanTypeRepository,
	leadRepo incentive.LeadRepository,
	calculationRepo incentive.CalculationRepository,
	targetRepo incentive.TargetRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceReader incentive.AttendanceReader,
	calculator *SlabCalculator,
	defaultWaiverPercentage float64,
) incentive.IncentiveService {
	return &IncentiveServiceImpl{
		tx:            tx,
		slabs:         slabRepo,
		loanTypes:     loanTypeRepo,
		leads:         leadRepo,
		calculations:  calculationRepo,
		targets:       targetRepo,
		employees:     employeeRepo,
		attendance:    attendanceReader,
		calculator:    calculator,
		defaultWaiver: decimal.NewFromFloat(defaultWaiverPercentage),
		now:           time.Now,
	}
}

// ListSlabs implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ListSlabs(ctx context.Context) ([]incentive.SlabResponse, error) {
	slabs, err := s.slabs.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slabs: %w", err)
	}
	incentive.SortSlabs(slabs)
	return toSlabResponses(slabs), nil
}

// ReplaceSlabs implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ReplaceSlabs(ctx context.Context, req incentive.ReplaceSlabsRequest) ([]incentive.SlabResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var saved []incentive.Slab
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.slabs.ReplaceActive(txCtx, req.ToSlabs())
		if err != nil {
			return fmt.Errorf("failed to replace slabs: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("incentive slabs replaced", "count", len(saved))
	return toSlabResponses(saved), nil
}

// PreviewIncentive implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) PreviewIncentive(ctx context.Context, req incentive.PreviewRequest) (incentive.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.PreviewResponse{}, err
	}

	slabs, err := s.slabs.ListActive(ctx)
	if err != nil {
		return incentive.PreviewResponse{}, fmt.Errorf("failed to list slabs: %w", err)
	}

	breakdown, err := s.calculator.Calculate(req.AmountLac, slabs)
	if err != nil {
		return incentive.PreviewResponse{}, err
	}

	waiver := s.waiverOrDefault(req.WaiverPercentage)
	final, err := ApplyWaiver(breakdown.Total, waiver)
	if err != nil {
		return incentive.PreviewResponse{}, err
	}

	lines := make([]incentive.BreakdownLineResponse, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		lines = append(lines, incentive.BreakdownLineResponse{
			Slab:       line.Slab.Label(),
			Portion:    line.Portion,
			RatePerLac: line.Slab.RatePerLac,
			Incentive:  line.Incentive,
		})
	}

	return incentive.PreviewResponse{
		AmountLac:        req.AmountLac,
		Total:            breakdown.Total.Round(2),
		WaiverPercentage: waiver,
		FinalAmount:      final.Round(2),
		Breakdown:        lines,
	}, nil
}

// CreateLoanType implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) CreateLoanType(ctx context.Context, req incentive.CreateLoanTypeRequest) (incentive.LoanTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.LoanTypeResponse{}, err
	}

	created, err := s.loanTypes.Create(ctx, incentive.LoanType{
		Name:         req.Name,
		PointsPerLac: req.PointsPerLac,
		IsActive:     true,
	})
	if err != nil {
		return incentive.LoanTypeResponse{}, fmt.Errorf("failed to create loan type: %w", err)
	}
	return toLoanTypeResponse(created), nil
}

// ListLoanTypes implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ListLoanTypes(ctx context.Context) ([]incentive.LoanTypeResponse, error) {
	loanTypes, err := s.loanTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan types: %w", err)
	}

	out := make([]incentive.LoanTypeResponse, 0, len(loanTypes))
	for _, lt := range loanTypes {
		out = append(out, toLoanTypeResponse(lt))
	}
	return out, nil
}

// CreateLead implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) CreateLead(ctx context.Context, req incentive.CreateLeadRequest) (incentive.LeadResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.LeadResponse{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return incentive.LeadResponse{}, err
	}

	loanType, err := s.loanTypes.GetByID(ctx, req.LoanTypeID)
	if err != nil {
		return incentive.LeadResponse{}, err
	}
	if !loanType.IsActive {
		return incentive.LeadResponse{}, incentive.ErrLoanTypeInactive
	}

	created, err := s.leads.Create(ctx, incentive.Lead{
		EmployeeID:   req.EmployeeID,
		LoanTypeID:   req.LoanTypeID,
		CustomerName: req.CustomerName,
		LoanAmount:   req.LoanAmount,
		Status:       incentive.LeadStatusNew,
	})
	if err != nil {
		return incentive.LeadResponse{}, fmt.Errorf("failed to create lead: %w", err)
	}

	created.LoanTypeName = &loanType.Name
	created.PointsPerLac = &loanType.PointsPerLac
	return toLeadResponse(created), nil
}

// UpdateLeadStatus implements incentive.IncentiveService. Moving a lead to
// DISBURSED recalculates that month's incentive in the same transaction.
func (s *IncentiveServiceImpl) UpdateLeadStatus(ctx context.Context, id string, req incentive.UpdateLeadStatusRequest) (incentive.LeadResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.LeadResponse{}, err
	}
	next := incentive.LeadStatus(req.Status)

	var updated incentive.Lead
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		lead, err := s.leads.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if !lead.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", incentive.ErrInvalidTransition, lead.Status, next)
		}

		var disbursedAt *time.Time
		if next == incentive.LeadStatusDisbursed {
			now := s.now().UTC()
			disbursedAt = &now
		}

		updated, err = s.leads.UpdateStatus(txCtx, id, next, disbursedAt)
		if err != nil {
			return fmt.Errorf("failed to update lead status: %w", err)
		}

		if disbursedAt != nil {
			if _, err := s.recalculate(txCtx, lead.EmployeeID, *disbursedAt, nil); err != nil {
				return fmt.Errorf("failed to recalculate incentive: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return incentive.LeadResponse{}, err
	}

	slog.Info("lead status updated", "lead_id", id, "status", next)
	return toLeadResponse(updated), nil
}

// ListLeads implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ListLeads(ctx context.Context, filter incentive.LeadFilter) (incentive.ListLeadResponse, error) {
	if err := filter.Validate(); err != nil {
		return incentive.ListLeadResponse{}, err
	}

	leads, total, err := s.leads.List(ctx, filter)
	if err != nil {
		return incentive.ListLeadResponse{}, fmt.Errorf("failed to list leads: %w", err)
	}

	items := make([]incentive.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	return incentive.ListLeadResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Calculate implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) Calculate(ctx context.Context, req incentive.CalculateRequest) (incentive.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.CalculationResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return incentive.CalculationResponse{}, err
	}

	var calc incentive.Calculation
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		calc, err = s.recalculate(txCtx, req.EmployeeID, month, req.WaiverPercentage)
		return err
	})
	if err != nil {
		return incentive.CalculationResponse{}, err
	}
	return toCalculationResponse(calc), nil
}

// BulkCalculate implements incentive.IncentiveService. Each employee runs in
// its own transaction; a failure is recorded and the rest continue.
func (s *IncentiveServiceImpl) BulkCalculate(ctx context.Context, req incentive.BulkCalculateRequest) (incentive.BulkCalculateResult, error) {
	if err := req.Validate(); err != nil {
		return incentive.BulkCalculateResult{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	employeeIDs := req.EmployeeIDs
	known := map[string]bool{}
	if len(employeeIDs) > 0 {
		var err error
		known, err = s.employees.ExistingIDs(ctx, employeeIDs)
		if err != nil {
			return incentive.BulkCalculateResult{}, fmt.Errorf("failed to resolve employees: %w", err)
		}
	} else {
		active, err := s.employees.GetActive(ctx)
		if err != nil {
			return incentive.BulkCalculateResult{}, fmt.Errorf("failed to list active employees: %w", err)
		}
		for _, emp := range active {
			employeeIDs = append(employeeIDs, emp.ID)
			known[emp.ID] = true
		}
	}

	result := incentive.BulkCalculateResult{Month: req.Month, Details: make([]incentive.CalculationOutcome, 0, len(employeeIDs))}
	for _, employeeID := range employeeIDs {
		if !known[employeeID] {
			result.Failed++
			result.Details = append(result.Details, incentive.CalculationOutcome{EmployeeID: employeeID, Error: employee.ErrEmployeeNotFound.Error()})
			continue
		}

		var calc incentive.Calculation
		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			calc, err = s.recalculate(txCtx, employeeID, month, req.WaiverPercentage)
			return err
		})

		if err != nil {
			// A broken slab set fails everyone the same way.
			if errors.Is(err, incentive.ErrConfiguration) {
				return incentive.BulkCalculateResult{}, err
			}
			slog.Warn("incentive calculation failed", "employee_id", employeeID, "month", req.Month, "error", err)
			result.Failed++
			result.Details = append(result.Details, incentive.CalculationOutcome{EmployeeID: employeeID, Error: err.Error()})
			continue
		}

		resp := toCalculationResponse(calc)
		result.Succeeded++
		result.Details = append(result.Details, incentive.CalculationOutcome{EmployeeID: employeeID, Calculation: &resp})
	}

	slog.Info("bulk incentive calculation finished", "month", req.Month, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// ListCalculations implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ListCalculations(ctx context.Context, filter incentive.CalculationFilter) ([]incentive.CalculationResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	month, _ := validator.IsValidMonth(filter.Month)

	calcs, err := s.calculations.ListByMonth(ctx, month, filter.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	out := make([]incentive.CalculationResponse, 0, len(calcs))
	for _, c := range calcs {
		out = append(out, toCalculationResponse(c))
	}
	return out, nil
}

// recalculate rebuilds the stored calculation for the month containing at.
// A nil waiver keeps the month's existing waiver, or the default for a new row.
func (s *IncentiveServiceImpl) recalculate(ctx context.Context, employeeID string, at time.Time, waiver *decimal.Decimal) (incentive.Calculation, error) {
	monthStart, monthEnd := incentive.MonthRange(at)

	if waiver == nil {
		existing, err := s.calculations.Get(ctx, employeeID, monthStart)
		switch {
		case err == nil:
			waiver = &existing.WaiverPercentage
		case errors.Is(err, incentive.ErrCalculationNotFound):
			waiver = &s.defaultWaiver
		default:
			return incentive.Calculation{}, fmt.Errorf("failed to load calculation: %w", err)
		}
	}

	leads, err := s.leads.ListDisbursed(ctx, employeeID, monthStart, monthEnd)
	if err != nil {
		return incentive.Calculation{}, fmt.Errorf("failed to list disbursed leads: %w", err)
	}

	totalAmount := decimal.Zero
	totalPoints := decimal.Zero
	for _, lead := range leads {
		totalAmount = totalAmount.Add(lead.LoanAmount)
		if lead.PointsPerLac != nil {
			totalPoints = totalPoints.Add(lead.AmountLac().Mul(*lead.PointsPerLac))
		}
	}

	raw := decimal.Zero
	if totalAmount.IsPositive() {
		slabs, err := s.slabs.ListActive(ctx)
		if err != nil {
			return incentive.Calculation{}, fmt.Errorf("failed to list slabs: %w", err)
		}
		breakdown, err := s.calculator.Calculate(incentive.ToLac(totalAmount), slabs)
		if err != nil {
			return incentive.Calculation{}, err
		}
		raw = breakdown.Total
	}

	final, err := ApplyWaiver(raw, *waiver)
	if err != nil {
		return incentive.Calculation{}, err
	}

	saved, err := s.calculations.Upsert(ctx, incentive.Calculation{
		EmployeeID:           employeeID,
		Month:                monthStart,
		TotalDisbursedAmount: totalAmount.Round(2),
		TotalPoints:          totalPoints.Round(2),
		IncentiveAmount:      raw.Round(2),
		WaiverPercentage:     *waiver,
		FinalIncentive:       final.Round(2),
		CalculatedAt:         s.now().UTC(),
	})
	if err != nil {
		return incentive.Calculation{}, fmt.Errorf("failed to save calculation: %w", err)
	}
	return saved, nil
}

func (s *IncentiveServiceImpl) waiverOrDefault(waiver *decimal.Decimal) decimal.Decimal {
	if waiver == nil {
		return s.defaultWaiver
	}
	return *waiver
}

func toSlabResponses(slabs []incentive.Slab) []incentive.SlabResponse {
	out := make([]incentive.SlabResponse, 0, len(slabs))
	for _, slab := range slabs {
		out = append(out, incentive.SlabResponse{
			ID:         slab.ID,
			Label:      slab.Label(),
			MinAmount:  slab.MinAmount,
			MaxAmount:  slab.MaxAmount,
			RatePerLac: slab.RatePerLac,
		})
	}
	return out
}

func toLoanTypeResponse(lt incentive.LoanType) incentive.LoanTypeResponse {
	return incentive.LoanTypeResponse{
		ID:           lt.ID,
		Name:         lt.Name,
		PointsPerLac: lt.PointsPerLac,
		IsActive:     lt.IsActive,
	}
}

func toLeadResponse(lead incentive.Lead) incentive.LeadResponse {
	resp := incentive.LeadResponse{
		ID:           lead.ID,
		EmployeeID:   lead.EmployeeID,
		LoanTypeID:   lead.LoanTypeID,
		LoanTypeName: lead.LoanTypeName,
		CustomerName: lead.CustomerName,
		LoanAmount:   lead.LoanAmount,
		AmountLac:    lead.AmountLac(),
		Points:       decimal.Zero,
		Status:       string(lead.Status),
		CreatedAt:    lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    lead.UpdatedAt.Format(time.RFC3339),
	}
	if lead.PointsPerLac != nil {
		resp.Points = lead.AmountLac().Mul(*lead.PointsPerLac).Round(2)
	}
	if lead.DisbursedAt != nil {
		disbursedAt := lead.DisbursedAt.Format(time.RFC3339)
		resp.DisbursedAt = &disbursedAt
	}
	return resp
}

func toCalculationResponse(c incentive.Calculation) incentive.CalculationResponse {
	return incentive.CalculationResponse{
		ID:                   c.ID,
		EmployeeID:           c.EmployeeID,
		Month:                c.Month.Format(validator.MonthLayout),
		TotalDisbursedAmount: c.TotalDisbursedAmount,
		TotalPoints:          c.TotalPoints,
		IncentiveAmount:      c.IncentiveAmount,
		WaiverPercentage:     c.WaiverPercentage,
		FinalIncentive:       c.FinalIncentive,
		CalculatedAt:         c.CalculatedAt.Format(time.RFC3339),
	}
}
