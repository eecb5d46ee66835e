package callattendance

import (
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

func toCallLogResponse(log callattendance.CallLog) callattendance.CallLogResponse {
	return callattendance.CallLogResponse{
		ID:                  log.ID,
		EmployeeID:          log.EmployeeID,
		EmployeeName:        log.EmployeeName,
		CallDate:            log.CallDate.Format(validator.DateLayout),
		CallDurationMinutes: log.DurationMinutes,
		CallCount:           log.CallCount,
		Source:              log.Source,
		CreatedAt:           log.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           log.UpdatedAt.Format(time.RFC3339),
	}
}

func toConfigResponse(cfg callattendance.Config) callattendance.ConfigResponse {
	return callattendance.ConfigResponse{
		ID:                     cfg.ID,
		Version:                cfg.Version,
		FullDayMinutes:         cfg.FullDayMinutes,
		HalfDayMinutes:         cfg.HalfDayMinutes,
		AbsentThresholdMinutes: cfg.AbsentThresholdMinutes,
		IsActive:               cfg.IsActive,
		CreatedBy:              cfg.CreatedBy,
		CreatedAt:              cfg.CreatedAt.Format(time.RFC3339),
	}
}

func toAttendanceResponse(a callattendance.CallAttendance) callattendance.AttendanceResponse {
	return callattendance.AttendanceResponse{
		ID:                  a.ID,
		EmployeeID:          a.EmployeeID,
		EmployeeName:        a.EmployeeName,
		AttendanceDate:      a.AttendanceDate.Format(validator.DateLayout),
		CallDurationMinutes: a.DurationMinutes,
		CallCount:           a.CallCount,
		Status:              string(a.Status),
		Source:              string(a.Source),
		ManualReason:        a.ManualReason,
		UpdatedBy:           a.UpdatedBy,
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
	}
}

func toSnapshotResponse(s callattendance.Snapshot) callattendance.SnapshotResponse {
	return callattendance.SnapshotResponse{
		CallDurationMinutes: s.DurationMinutes,
		CallCount:           s.CallCount,
		Status:              string(s.Status),
	}
}

func toAuditResponse(a callattendance.Audit) callattendance.AuditResponse {
	return callattendance.AuditResponse{
		ID:               a.ID,
		CallAttendanceID: a.CallAttendanceID,
		EmployeeID:       a.EmployeeID,
		AttendanceDate:   a.AttendanceDate.Format(validator.DateLayout),
		Old:              toSnapshotResponse(a.Old),
		New:              toSnapshotResponse(a.New),
		Reason:           a.Reason,
		UpdatedBy:        a.UpdatedBy,
		IPAddress:        a.IPAddress,
		UserAgent:        a.UserAgent,
		Timestamp:        a.Timestamp.Format(time.RFC3339),
	}
}
