package incentive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// SetTarget implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) SetTarget(ctx context.Context, req incentive.SetTargetRequest) (incentive.TargetResponse, error) {
	if err := req.Validate(); err != nil {
		return incentive.TargetResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return incentive.TargetResponse{}, err
	}

	saved, err := s.targets.Upsert(ctx, incentive.NewTarget(emp.ID, month, req.TargetAmount, emp.BasicSalary))
	if err != nil {
		return incentive.TargetResponse{}, fmt.Errorf("failed to save target: %w", err)
	}
	return toTargetResponse(saved), nil
}

// ListTargets implements incentive.IncentiveService.
func (s *IncentiveServiceImpl) ListTargets(ctx context.Context, filter incentive.TargetFilter) ([]incentive.TargetResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	month, _ := validator.IsValidMonth(filter.Month)

	targets, err := s.targets.ListByMonth(ctx, month, filter.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	out := make([]incentive.TargetResponse, 0, len(targets))
	for _, t := range targets {
		out = append(out, toTargetResponse(t))
	}
	return out, nil
}

// AutoCreateTargets implements incentive.IncentiveService. Active employees
// with a basic salary get a salary based target unless the month already
// has one.
func (s *IncentiveServiceImpl) AutoCreateTargets(ctx context.Context, req incentive.AutoTargetRequest) (incentive.AutoTargetResult, error) {
	if err := req.Validate(); err != nil {
		return incentive.AutoTargetResult{}, err
	}

	month, _ := incentive.MonthRange(s.now().UTC())
	if req.Month != "" {
		month, _ = validator.IsValidMonth(req.Month)
	}

	employees, err := s.employees.GetActive(ctx)
	if err != nil {
		return incentive.AutoTargetResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	result := incentive.AutoTargetResult{Month: month.Format(validator.MonthLayout)}
	for _, emp := range employees {
		auto := incentive.AutoTarget(emp.BasicSalary)
		if auto == nil {
			result.Skipped++
			continue
		}

		created, err := s.targets.CreateIfAbsent(ctx, incentive.NewTarget(emp.ID, month, *auto, emp.BasicSalary))
		if err != nil {
			return result, fmt.Errorf("failed to create target for employee %s: %w", emp.ID, err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	slog.Info("incentive targets created from salary", "month", result.Month, "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func toTargetResponse(t incentive.Target) incentive.TargetResponse {
	return incentive.TargetResponse{
		ID:                t.ID,
		EmployeeID:        t.EmployeeID,
		Month:             t.Month.Format(validator.MonthLayout),
		TargetAmount:      t.TargetAmount,
		AutoTargetAmount:  t.AutoTargetAmount,
		FinalTargetAmount: t.FinalTargetAmount,
		UpdatedAt:         t.UpdatedAt.Format(time.RFC3339),
	}
}
