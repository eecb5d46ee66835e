package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
)

type CallAttendanceJobs struct {
	svc           callattendance.CallAttendanceService
	reconcileHour int
	retentionDays int
	now           func() time.Time

	mu             sync.Mutex
	lastReconciled string
}

func NewCallAttendanceJobs(svc callattendance.CallAttendanceService, reconcileHour, retentionDays int) *CallAttendanceJobs {
	return &CallAttendanceJobs{
		svc:           svc,
		reconcileHour: reconcileHour,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (j *CallAttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) error {
	if err := scheduler.AddJob("reconcile_call_attendance", interval, j.ReconcileToday); err != nil {
		return err
	}
	return scheduler.AddJob("purge_call_attendance_audit", 24*time.Hour, j.PurgeAuditTrail)
}

// ReconcileToday reconciles the current local date once per day, on the
// first tick at or after the configured hour. A failed run is retried on
// the next tick.
func (j *CallAttendanceJobs) ReconcileToday(ctx context.Context) error {
	now := j.now()
	if now.Hour() < j.reconcileHour {
		return nil
	}

	today := now.Format("2006-01-02")

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastReconciled == today {
		return nil
	}

	slog.Info("Cron: Starting call attendance reconciliation", "date", today)

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	result, err := j.svc.ReconcileDay(ctx, date)
	if err != nil {
		return fmt.Errorf("reconcile %s: %w", today, err)
	}
	j.lastReconciled = today

	slog.Info("Cron: Call attendance reconciled",
		"date", today,
		"run_id", result.RunID,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", len(result.Failed),
		"reason", result.Reason)
	return nil
}

func (j *CallAttendanceJobs) PurgeAuditTrail(ctx context.Context) error {
	result, err := j.svc.PurgeAudit(ctx, user.SystemActor, callattendance.PurgeAuditRequest{OlderThanDays: j.retentionDays})
	if err != nil {
		return fmt.Errorf("purge audit trail: %w", err)
	}

	slog.Info("Cron: Purged call attendance audit", "deleted", result.Deleted, "cutoff", result.Cutoff)
	return nil
}
