package callattendance

import (
	"context"
	"time"
)

type CallLogRepository interface {
	// Upsert writes the log for (employee, date), reporting whether a new row was created.
	Upsert(ctx context.Context, log CallLog) (CallLog, bool, error)
	ListByDate(ctx context.Context, date time.Time, employeeID *string) ([]CallLog, error)
}

type CallAttendanceRepository interface {
	// LockDate serialises reconciliation runs for one date until the
	// surrounding transaction ends.
	LockDate(ctx context.Context, date time.Time) error
	ListByDate(ctx context.Context, date time.Time) ([]CallAttendance, error)
	// UpsertAuto writes an AUTO record unless a MANUAL one exists for the key.
	// applied is false when the write was suppressed.
	UpsertAuto(ctx context.Context, attendance CallAttendance) (applied bool, err error)
	// GetOrCreateForUpdate materialises the default record when absent and
	// returns it row-locked.
	GetOrCreateForUpdate(ctx context.Context, employeeID string, date time.Time) (CallAttendance, error)
	UpdateManual(ctx context.Context, attendance CallAttendance) (CallAttendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]CallAttendance, int64, error)
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]CallAttendance, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	// LastAutoUpdatedAt returns nil when no AUTO record exists.
	LastAutoUpdatedAt(ctx context.Context) (*time.Time, error)
}

type ConfigRepository interface {
	// Create stores cfg with the next version number.
	Create(ctx context.Context, cfg Config) (Config, error)
	GetByID(ctx context.Context, id string) (Config, error)
	// GetActive returns ErrNoActiveConfig when the pointer is unset.
	GetActive(ctx context.Context) (Config, error)
	SetActive(ctx context.Context, id string) error
	List(ctx context.Context) ([]Config, error)
}

type AuditRepository interface {
	Append(ctx context.Context, audit Audit) (Audit, error)
	List(ctx context.Context, filter AuditFilter) ([]Audit, int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
