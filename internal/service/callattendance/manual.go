package callattendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// ManualUpdate implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ManualUpdate(ctx context.Context, actor user.Actor, req callattendance.ManualUpdateRequest) (callattendance.ManualUpdateResponse, error) {
	if actor.UserID == "" {
		return callattendance.ManualUpdateResponse{}, user.ErrActorRequired
	}
	if err := req.Validate(); err != nil {
		return callattendance.ManualUpdateResponse{}, err
	}
	date, _ := validator.IsValidDate(req.AttendanceDate)
	reason := strings.TrimSpace(req.Reason)

	allowed, err := s.authority.HasManualUpdateAuthority(ctx, actor, req.EmployeeID)
	if err != nil {
		return callattendance.ManualUpdateResponse{}, fmt.Errorf("failed to resolve manual update authority: %w", err)
	}
	if !allowed {
		return callattendance.ManualUpdateResponse{}, callattendance.ErrManualUpdateForbidden
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return callattendance.ManualUpdateResponse{}, err
	}

	key := cache.SubmissionKey("manual", actor.UserID, req.EmployeeID, req.AttendanceDate)
	acquired, err := s.guard.Acquire(ctx, key)
	if err != nil {
		return callattendance.ManualUpdateResponse{}, fmt.Errorf("failed to check duplicate submission: %w", err)
	}
	if !acquired {
		return callattendance.ManualUpdateResponse{}, callattendance.ErrDuplicateSubmission
	}

	var updated callattendance.CallAttendance
	var audit callattendance.Audit
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		cfg, err := s.configs.GetActive(txCtx)
		if err != nil {
			return err
		}

		record, err := s.attendance.GetOrCreateForUpdate(txCtx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		old := record.Snapshot()

		record.DurationMinutes = *req.CallDurationMinutes
		record.CallCount = *req.CallCount
		record.Status = cfg.Classify(record.DurationMinutes)
		record.Source = callattendance.SourceManual
		record.ManualReason = &reason
		record.UpdatedBy = &actor.UserID

		updated, err = s.attendance.UpdateManual(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		audit, err = s.audits.Append(txCtx, callattendance.Audit{
			ID:               newID(),
			CallAttendanceID: updated.ID,
			EmployeeID:       updated.EmployeeID,
			AttendanceDate:   date,
			Old:              old,
			New:              updated.Snapshot(),
			Reason:           reason,
			UpdatedBy:        actor.UserID,
			IPAddress:        optional(actor.IPAddress),
			UserAgent:        optional(actor.UserAgent),
			Timestamp:        s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to append audit: %w", err)
		}
		return nil
	})
	if err != nil {
		if releaseErr := s.guard.Release(ctx, key); releaseErr != nil {
			slog.Warn("failed to release submission key", "key", key, "error", releaseErr)
		}
		return callattendance.ManualUpdateResponse{}, err
	}

	slog.Info("call attendance manually updated",
		"employee_id", updated.EmployeeID,
		"date", req.AttendanceDate,
		"updated_by", actor.UserID,
		"old_status", audit.Old.Status,
		"new_status", audit.New.Status,
	)

	return callattendance.ManualUpdateResponse{
		Attendance: toAttendanceResponse(updated),
		Audit:      toAuditResponse(audit),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
