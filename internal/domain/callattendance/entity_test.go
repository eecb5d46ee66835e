package callattendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := NewConfig(DefaultFullDayMinutes, DefaultHalfDayMinutes, DefaultAbsentThresholdMinutes)
	require.NoError(t, err)
	return cfg
}

func TestConfigClassify(t *testing.T) {
	cfg := defaultConfig(t)

	tests := []struct {
		minutes int
		want    Status
	}{
		{0, StatusAbsent},
		{119, StatusAbsent},
		{120, StatusAbsent},
		{cfg.HalfDayMinutes - 1, StatusAbsent},
		{cfg.HalfDayMinutes, StatusHalfDay},
		{150, StatusHalfDay},
		{cfg.FullDayMinutes - 1, StatusHalfDay},
		{cfg.FullDayMinutes, StatusPresent},
		{480, StatusPresent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Classify(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestConfigClassify_IgnoresAbsentThreshold(t *testing.T) {
	// Absent floor above zero never produces a fourth bucket.
	cfg, err := NewConfig(200, 100, 50)
	require.NoError(t, err)

	assert.Equal(t, StatusAbsent, cfg.Classify(10))
	assert.Equal(t, StatusAbsent, cfg.Classify(60))
	assert.Equal(t, StatusHalfDay, cfg.Classify(100))
}

func TestNewConfig_Validation(t *testing.T) {
	tests := []struct {
		name               string
		full, half, absent int
		wantField          string
	}{
		{"full below half", 100, 150, 0, "full_day_minutes"},
		{"full equals half", 150, 150, 0, "full_day_minutes"},
		{"half equals absent", 200, 120, 120, "half_day_minutes"},
		{"negative absent", 200, 120, -1, "absent_threshold_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.full, tt.half, tt.absent)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}

	_, err := NewConfig(171, 121, 0)
	assert.NoError(t, err)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Source
		want     bool
	}{
		{SourceNone, SourceAuto, true},
		{SourceNone, SourceManual, true},
		{SourceAuto, SourceAuto, true},
		{SourceAuto, SourceManual, true},
		{SourceManual, SourceManual, true},
		{SourceManual, SourceAuto, false},
		{Source("BULK_UPLOAD"), SourceAuto, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%q -> %q", tt.from, tt.to)
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []CallAttendance{
		{DurationMinutes: 200, CallCount: 40, Status: StatusPresent, Source: SourceAuto},
		{DurationMinutes: 130, CallCount: 20, Status: StatusHalfDay, Source: SourceManual},
		{DurationMinutes: 10, CallCount: 2, Status: StatusAbsent, Source: SourceAuto},
		{DurationMinutes: 180, CallCount: 30, Status: StatusPresent, Source: SourceManual},
	}

	s := Summarize("emp-1", day, day.AddDate(0, 0, 3), rows)

	assert.Equal(t, 4, s.TotalDays)
	assert.Equal(t, 2, s.PresentDays)
	assert.Equal(t, 1, s.HalfDays)
	assert.Equal(t, 1, s.AbsentDays)
	assert.Equal(t, 520, s.TotalMinutes)
	assert.Equal(t, 92, s.TotalCalls)
	assert.Equal(t, 2, s.ManualUpdateCount)
	assert.InDelta(t, 75.0, s.AttendancePercentage(), 0.001)

	assert.Zero(t, Summarize("emp-1", day, day, nil).AttendancePercentage())
}

func TestNewDefaultAttendance(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a := NewDefaultAttendance("emp-1", day)

	assert.Equal(t, Snapshot{DurationMinutes: 0, CallCount: 0, Status: StatusAbsent}, a.Snapshot())
	assert.Equal(t, SourceAuto, a.Source)
}
