package callattendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// ReconcileDay implements callattendance.CallAttendanceService.
//
// The day runs in one transaction holding the date's advisory lock. Each
// employee is written inside a savepoint so a fault is recorded against that
// employee while the rest of the day still commits.
func (s *CallAttendanceServiceImpl) ReconcileDay(ctx context.Context, date time.Time) (callattendance.ReconcileResult, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	result := callattendance.ReconcileResult{
		RunID:  newID(),
		Date:   date.Format(validator.DateLayout),
		Failed: []callattendance.EmployeeFailure{},
	}
	logger := slog.With("run_id", result.RunID, "date", result.Date)

	working, err := s.calendar.IsWorkingDay(ctx, date)
	if err != nil {
		return callattendance.ReconcileResult{}, fmt.Errorf("failed to check working day: %w", err)
	}
	if !working {
		result.Reason = callattendance.ReasonNonWorkingDay
		logger.Info("Reconcile: skipped non-working day")
		return result, nil
	}

	cfg, err := s.configs.GetActive(ctx)
	if err != nil {
		return callattendance.ReconcileResult{}, err
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attendance.LockDate(txCtx, date); err != nil {
			return fmt.Errorf("failed to lock date: %w", err)
		}

		logs, err := s.callLogs.ListByDate(txCtx, date, nil)
		if err != nil {
			return fmt.Errorf("failed to list call logs: %w", err)
		}

		existing, err := s.attendance.ListByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		sources := make(map[string]callattendance.Source, len(existing))
		for _, a := range existing {
			sources[a.EmployeeID] = a.Source
		}

		for _, log := range logs {
			if !callattendance.CanTransition(sources[log.EmployeeID], callattendance.SourceAuto) {
				result.Skipped++
				continue
			}

			var applied bool
			err := s.tx.WithinSavepoint(txCtx, func(spCtx context.Context) error {
				var err error
				applied, err = s.attendance.UpsertAuto(spCtx, callattendance.CallAttendance{
					EmployeeID:      log.EmployeeID,
					AttendanceDate:  date,
					DurationMinutes: log.DurationMinutes,
					CallCount:       log.CallCount,
					Status:          cfg.Classify(log.DurationMinutes),
					Source:          callattendance.SourceAuto,
				})
				return err
			})
			if err != nil {
				logger.Warn("Reconcile: employee failed", "employee_id", log.EmployeeID, "error", err)
				result.Failed = append(result.Failed, callattendance.EmployeeFailure{EmployeeID: log.EmployeeID, Error: err.Error()})
				continue
			}

			// A manual write landed after the listing above.
			if !applied {
				result.Skipped++
				continue
			}
			result.Processed++
		}
		return nil
	})
	if err != nil {
		return callattendance.ReconcileResult{}, err
	}

	result.Reason = callattendance.ReasonSuccess
	logger.Info("Reconcile: day finished", "processed", result.Processed, "skipped", result.Skipped, "failed", len(result.Failed))
	return result, nil
}

// ReconcileRange implements callattendance.CallAttendanceService. A failed
// day is reported and the range carries on.
func (s *CallAttendanceServiceImpl) ReconcileRange(ctx context.Context, start, end time.Time) (callattendance.ReconcileRangeResult, error) {
	req := callattendance.ReconcileRangeRequest{
		StartDate: start.Format(validator.DateLayout),
		EndDate:   end.Format(validator.DateLayout),
	}
	if err := req.Validate(); err != nil {
		return callattendance.ReconcileRangeResult{}, err
	}
	start, _ = validator.IsValidDate(req.StartDate)
	end, _ = validator.IsValidDate(req.EndDate)

	result := callattendance.ReconcileRangeResult{StartDate: req.StartDate, EndDate: req.EndDate}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := callattendance.DayOutcome{Date: day.Format(validator.DateLayout)}
		dayResult, err := s.ReconcileDay(ctx, day)
		if err != nil {
			slog.Error("Reconcile: day failed", "date", outcome.Date, "error", err)
			outcome.Error = err.Error()
		} else {
			outcome.Result = &dayResult
		}
		result.Days = append(result.Days, outcome)
	}
	return result, nil
}

// ReconcileStatus implements callattendance.CallAttendanceService. Today is
// pending until at least one record exists for the local date.
func (s *CallAttendanceServiceImpl) ReconcileStatus(ctx context.Context) (callattendance.ReconcileStatusResponse, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	todayCount, err := s.attendance.CountByDate(ctx, today)
	if err != nil {
		return callattendance.ReconcileStatusResponse{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	yesterdayCount, err := s.attendance.CountByDate(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		return callattendance.ReconcileStatusResponse{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	lastAuto, err := s.attendance.LastAutoUpdatedAt(ctx)
	if err != nil {
		return callattendance.ReconcileStatusResponse{}, fmt.Errorf("failed to get last calculation: %w", err)
	}

	resp := callattendance.ReconcileStatusResponse{
		Today:            today.Format(validator.DateLayout),
		TodayRecords:     todayCount,
		YesterdayRecords: yesterdayCount,
		Status:           callattendance.ReconcileStatusPending,
	}
	if todayCount > 0 {
		resp.Status = callattendance.ReconcileStatusUpToDate
	}
	if lastAuto != nil {
		formatted := lastAuto.Format(time.RFC3339)
		resp.LastAutoCalculation = &formatted
	}
	return resp, nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
