package incentive

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// PerformanceSummary implements incentive.IncentiveService. Leads are those
// created in the inclusive date range; attendance covers the same days.
func (s *IncentiveServiceImpl) PerformanceSummary(ctx context.Context, req incentive.PerformanceRequest) (incentive.PerformanceSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.PerformanceSummaryResponse{}, err
	}
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return incentive.PerformanceSummaryResponse{}, err
	}

	leads, err := s.leads.ListCreatedBetween(ctx, req.EmployeeID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return incentive.PerformanceSummaryResponse{}, fmt.Errorf("failed to list leads: %w", err)
	}

	rows, err := s.attendance.ListByEmployeeAndRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return incentive.PerformanceSummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	summary := callattendance.Summarize(req.EmployeeID, start, end, rows)

	resp := incentive.PerformanceSummaryResponse{
		EmployeeID:      req.EmployeeID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalLeads:      len(leads),
		TotalAmount:     decimal.Zero,
		TotalPoints:     decimal.Zero,
		AverageLoanSize: decimal.Zero,
		TotalCallDays:   summary.TotalDays,
		PresentDays:     summary.PresentDays,
		HalfDays:        summary.HalfDays,
		AbsentDays:      summary.AbsentDays,
		AttendanceRate:  roundPercent(summary.AttendancePercentage()),
	}

	for _, lead := range leads {
		if lead.Status != incentive.LeadStatusDisbursed {
			continue
		}
		resp.DisbursedLeads++
		resp.TotalAmount = resp.TotalAmount.Add(lead.LoanAmount)
		if lead.PointsPerLac != nil {
			resp.TotalPoints = resp.TotalPoints.Add(lead.AmountLac().Mul(*lead.PointsPerLac))
		}
	}
	if resp.DisbursedLeads > 0 {
		resp.AverageLoanSize = resp.TotalAmount.Div(decimal.NewFromInt(int64(resp.DisbursedLeads))).Round(2)
	}
	if resp.TotalLeads > 0 {
		resp.ConversionRate = roundPercent(float64(resp.DisbursedLeads) / float64(resp.TotalLeads) * 100)
	}
	resp.TotalAmount = resp.TotalAmount.Round(2)
	resp.TotalPoints = resp.TotalPoints.Round(2)

	return resp, nil
}

// SalaryEligibility implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) SalaryEligibility(ctx context.Context, req incentive.EligibilityRequest) (incentive.EligibilityResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.EligibilityResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)
	monthStart, monthEnd := incentive.MonthRange(month)

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return incentive.EligibilityResponse{}, err
	}

	lastDay := monthEnd.AddDate(0, 0, -1)
	rows, err := s.attendance.ListByEmployeeAndRange(ctx, req.EmployeeID, monthStart, lastDay)
	if err != nil {
		return incentive.EligibilityResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	summary := callattendance.Summarize(req.EmployeeID, monthStart, lastDay, rows)

	disbursed, err := s.leads.ListDisbursed(ctx, req.EmployeeID, monthStart, monthEnd)
	if err != nil {
		return incentive.EligibilityResponse{}, fmt.Errorf("failed to list disbursed leads: %w", err)
	}

	eligible, reason := incentive.CheckEligibility(summary, len(disbursed))
	return incentive.EligibilityResponse{
		EmployeeID:           req.EmployeeID,
		Month:                monthStart.Format(validator.MonthLayout),
		TotalDays:            summary.TotalDays,
		PresentDays:          summary.PresentDays,
		HalfDays:             summary.HalfDays,
		AbsentDays:           summary.AbsentDays,
		ManualUpdates:        summary.ManualUpdateCount,
		AttendancePercentage: roundPercent(summary.AttendancePercentage()),
		DisbursedLeads:       len(disbursed),
		ThresholdPercentage:  incentive.EligibilityThresholdPercent,
		Eligible:             eligible,
		Reason:               reason,
	}, nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
