package callattendance

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
)

type CallAttendanceService interface {
	// Ingestion
	SubmitCallLog(ctx context.Context, req SubmitCallLogRequest) (CallLogResponse, bool, error)
	BulkSubmitCallLogs(ctx context.Context, req BulkSubmitCallLogsRequest) (BulkSubmitResult, error)
	ImportCallLogs(ctx context.Context, file io.Reader, filename string) (BulkSubmitResult, error)
	CallLogTemplate(ctx context.Context) ([]byte, error)
	ListCallLogs(ctx context.Context, filter CallLogFilter) ([]CallLogResponse, error)

	// Reconciliation
	ReconcileDay(ctx context.Context, date time.Time) (ReconcileResult, error)
	ReconcileRange(ctx context.Context, start, end time.Time) (ReconcileRangeResult, error)
	ReconcileStatus(ctx context.Context) (ReconcileStatusResponse, error)

	// Manual override
	ManualUpdate(ctx context.Context, actor user.Actor, req ManualUpdateRequest) (ManualUpdateResponse, error)

	// Configuration store
	CreateConfig(ctx context.Context, actor user.Actor, req CreateConfigRequest) (ConfigResponse, error)
	ActivateConfig(ctx context.Context, id string) (ConfigResponse, error)
	GetActiveConfig(ctx context.Context) (ConfigResponse, error)
	ListConfigs(ctx context.Context) ([]ConfigResponse, error)

	// Reporting
	ListAttendance(ctx context.Context, actor user.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)
	GetEmployeeSummary(ctx context.Context, actor user.Actor, req SummaryRequest) (SummaryResponse, error)
	ExportAttendanceReport(ctx context.Context, actor user.Actor, filter AttendanceFilter) ([]byte, error)

	// Audit trail
	ListAudit(ctx context.Context, filter AuditFilter) (ListAuditResponse, error)
	PurgeAudit(ctx context.Context, actor user.Actor, req PurgeAuditRequest) (PurgeAuditResponse, error)
}

// WorkingDayChecker decides whether attendance is expected on a date.
type WorkingDayChecker interface {
	IsWorkingDay(ctx context.Context, date time.Time) (bool, error)
}

// AuthorityChecker resolves whether actor may override employeeID's attendance.
type AuthorityChecker interface {
	HasManualUpdateAuthority(ctx context.Context, actor user.Actor, employeeID string) (bool, error)
}

// SubmissionGuard rejects repeated submissions of the same key within a window.
type SubmissionGuard interface {
	// Acquire returns false when key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
