package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []time.Weekday{time.Sunday}, cfg.CallAttendance.WeeklyOffDays)
	assert.Equal(t, time.Hour, cfg.CallAttendance.ReconcileInterval)
	assert.Equal(t, 23, cfg.CallAttendance.ReconcileHour)
	assert.Equal(t, 90, cfg.CallAttendance.AuditRetentionDays)
	assert.Equal(t, 60*time.Second, cfg.CallAttendance.DuplicateSubmissionTTL)
	assert.Equal(t, "120-M", cfg.App.IngestRateLimit)
	assert.Equal(t, 30.0, cfg.Incentive.DefaultWaiverPercentage)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing db password", env: map[string]string{"JWT_SECRET_KEY": "x"}},
		{name: "missing jwt secret", env: map[string]string{"DB_PASSWORD": "x"}},
		{name: "bad weekday", env: map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "WEEKLY_OFF_DAYS": "Funday"}},
		{name: "hour out of range", env: map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "RECONCILE_HOUR": "24"}},
		{name: "waiver over 100", env: map[string]string{"DB_PASSWORD": "x", "JWT_SECRET_KEY": "x", "DEFAULT_WAIVER_PERCENTAGE": "120"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_PASSWORD", "")
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays([]string{"saturday", "Sunday"})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, days)
}
