package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIncentiveService struct {
	incentive.IncentiveService

	months []string
	err    error
}

func (s *stubIncentiveService) AutoCreateTargets(_ context.Context, req incentive.AutoTargetRequest) (incentive.AutoTargetResult, error) {
	s.months = append(s.months, req.Month)
	if s.err != nil {
		return incentive.AutoTargetResult{}, s.err
	}
	return incentive.AutoTargetResult{Month: req.Month, Created: 2}, nil
}

func TestEnsureMonthlyTargets_OncePerMonth(t *testing.T) {
	ctx := context.Background()
	svc := &stubIncentiveService{}
	jobs := NewIncentiveJobs(svc)

	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.EnsureMonthlyTargets(ctx))
	require.NoError(t, jobs.EnsureMonthlyTargets(ctx))

	now = time.Date(2024, 4, 1, 0, 5, 0, 0, time.UTC)
	require.NoError(t, jobs.EnsureMonthlyTargets(ctx))

	assert.Equal(t, []string{"2024-03", "2024-04"}, svc.months)
}

func TestEnsureMonthlyTargets_RetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	svc := &stubIncentiveService{err: errors.New("db down")}
	jobs := NewIncentiveJobs(svc)
	jobs.now = func() time.Time { return time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC) }

	assert.Error(t, jobs.EnsureMonthlyTargets(ctx))

	svc.err = nil
	require.NoError(t, jobs.EnsureMonthlyTargets(ctx))
	assert.Equal(t, []string{"2024-03", "2024-03"}, svc.months)
}
