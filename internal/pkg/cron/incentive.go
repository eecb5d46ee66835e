package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
)

type IncentiveJobs struct {
	svc incentive.IncentiveService
	now func() time.Time

	mu          sync.Mutex
	lastTargets string
}

func NewIncentiveJobs(svc incentive.IncentiveService) *IncentiveJobs {
	return &IncentiveJobs{svc: svc, now: time.Now}
}

func (j *IncentiveJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) error {
	return scheduler.AddJob("create_salary_targets", interval, j.EnsureMonthlyTargets)
}

// EnsureMonthlyTargets creates salary based targets once per month.
func (j *IncentiveJobs) EnsureMonthlyTargets(ctx context.Context) error {
	month := j.now().Format("2006-01")

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastTargets == month {
		return nil
	}

	result, err := j.svc.AutoCreateTargets(ctx, incentive.AutoTargetRequest{Month: month})
	if err != nil {
		return fmt.Errorf("create targets %s: %w", month, err)
	}
	j.lastTargets = month

	slog.Info("Cron: Salary targets ensured", "month", month, "created", result.Created, "skipped", result.Skipped)
	return nil
}
