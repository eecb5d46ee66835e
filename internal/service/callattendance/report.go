package callattendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// exportLimit caps a single XLSX report.
const exportLimit = 10000

// ListAttendance implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ListAttendance(ctx context.Context, actor user.Actor, filter callattendance.AttendanceFilter) (callattendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return callattendance.ListAttendanceResponse{}, err
	}

	scope, err := resolveViewScope(actor, filter.EmployeeID)
	if err != nil {
		return callattendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = scope

	rows, total, err := s.attendance.List(ctx, filter)
	if err != nil {
		return callattendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	items := make([]callattendance.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toAttendanceResponse(row))
	}

	return callattendance.ListAttendanceResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetEmployeeSummary implements callattendance.CallAttendanceService.
// The range defaults to the first of the current month through today.
func (s *CallAttendanceServiceImpl) GetEmployeeSummary(ctx context.Context, actor user.Actor, req callattendance.SummaryRequest) (callattendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return callattendance.SummaryResponse{}, err
	}

	if _, err := resolveViewScope(actor, &req.EmployeeID); err != nil {
		return callattendance.SummaryResponse{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return callattendance.SummaryResponse{}, err
	}

	end := s.today()
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	if req.StartDate != nil {
		start, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		end, _ = validator.IsValidDate(*req.EndDate)
	}
	if end.Before(start) {
		return callattendance.SummaryResponse{}, callattendance.ErrInvalidDateRange
	}

	rows, err := s.attendance.ListByEmployeeAndRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return callattendance.SummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	summary := callattendance.Summarize(req.EmployeeID, start, end, rows)
	return callattendance.SummaryResponse{
		EmployeeID:           summary.EmployeeID,
		StartDate:            summary.StartDate.Format(validator.DateLayout),
		EndDate:              summary.EndDate.Format(validator.DateLayout),
		TotalDays:            summary.TotalDays,
		PresentDays:          summary.PresentDays,
		HalfDays:             summary.HalfDays,
		AbsentDays:           summary.AbsentDays,
		TotalCallMinutes:     summary.TotalMinutes,
		TotalCalls:           summary.TotalCalls,
		ManualUpdates:        summary.ManualUpdateCount,
		AttendancePercentage: math.Round(summary.AttendancePercentage()*100) / 100,
	}, nil
}

// ExportAttendanceReport implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ExportAttendanceReport(ctx context.Context, actor user.Actor, filter callattendance.AttendanceFilter) ([]byte, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	scope, err := resolveViewScope(actor, filter.EmployeeID)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = scope
	filter.Page = 1
	filter.Limit = exportLimit

	rows, _, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		name := ""
		if row.EmployeeName != nil {
			name = *row.EmployeeName
		}
		reason := ""
		if row.ManualReason != nil {
			reason = *row.ManualReason
		}
		data = append(data, []interface{}{
			row.AttendanceDate.Format(validator.DateLayout),
			row.EmployeeID,
			name,
			row.DurationMinutes,
			row.CallCount,
			string(row.Status),
			string(row.Source),
			reason,
		})
	}

	return spreadsheet.Build(spreadsheet.Sheet{
		Name:   "Call Attendance",
		Header: []string{"Date", "Employee ID", "Employee Name", "Call Minutes", "Call Count", "Status", "Source", "Manual Reason"},
		Rows:   data,
	})
}

// ListAudit implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ListAudit(ctx context.Context, filter callattendance.AuditFilter) (callattendance.ListAuditResponse, error) {
	if err := filter.Validate(); err != nil {
		return callattendance.ListAuditResponse{}, err
	}

	audits, total, err := s.audits.List(ctx, filter)
	if err != nil {
		return callattendance.ListAuditResponse{}, fmt.Errorf("failed to list audit trail: %w", err)
	}

	items := make([]callattendance.AuditResponse, 0, len(audits))
	for _, a := range audits {
		items = append(items, toAuditResponse(a))
	}

	return callattendance.ListAuditResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// PurgeAudit implements callattendance.CallAttendanceService. It is the only
// path that deletes audit rows.
func (s *CallAttendanceServiceImpl) PurgeAudit(ctx context.Context, actor user.Actor, req callattendance.PurgeAuditRequest) (callattendance.PurgeAuditResponse, error) {
	if !actor.IsSuperAdmin() {
		return callattendance.PurgeAuditResponse{}, callattendance.ErrPurgeForbidden
	}
	if req.OlderThanDays < 1 {
		return callattendance.PurgeAuditResponse{}, callattendance.ErrInvalidRetention
	}

	cutoff := s.now().UTC().AddDate(0, 0, -req.OlderThanDays)
	deleted, err := s.audits.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return callattendance.PurgeAuditResponse{}, fmt.Errorf("failed to purge audit trail: %w", err)
	}

	slog.Info("call attendance audit purged", "deleted", deleted, "cutoff", cutoff, "actor", actor.UserID)
	return callattendance.PurgeAuditResponse{Deleted: deleted, Cutoff: cutoff.Format(time.RFC3339)}, nil
}
