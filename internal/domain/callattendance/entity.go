package callattendance

import (
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

// Status is the attendance bucket derived from call minutes.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusAbsent  Status = "ABSENT"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusHalfDay, StatusAbsent:
		return true
	}
	return false
}

// Source tags who produced an attendance record.
type Source string

const (
	SourceNone   Source = "" // no record stored yet
	SourceAuto   Source = "AUTO"
	SourceManual Source = "MANUAL"
)

func (s Source) IsValid() bool {
	return s == SourceAuto || s == SourceManual
}

const (
	DefaultCallLogSource = "API"
	BulkUploadSource     = "BULK_UPLOAD"
)

type CallLog struct {
	ID              string
	EmployeeID      string
	CallDate        time.Time
	DurationMinutes int
	CallCount       int
	Source          string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName *string
}

// Config holds classification thresholds. Only FullDayMinutes and
// HalfDayMinutes take part in classification; AbsentThresholdMinutes is a
// reporting floor.
type Config struct {
	ID                     string
	Version                int
	FullDayMinutes         int
	HalfDayMinutes         int
	AbsentThresholdMinutes int
	IsActive               bool
	CreatedBy              *string
	CreatedAt              time.Time
}

// Default thresholds seeded on first start.
const (
	DefaultFullDayMinutes         = 171
	DefaultHalfDayMinutes         = 121
	DefaultAbsentThresholdMinutes = 120
)

// NewConfig builds a validated, not yet persisted config.
func NewConfig(fullDay, halfDay, absent int) (Config, error) {
	cfg := Config{
		FullDayMinutes:         fullDay,
		HalfDayMinutes:         halfDay,
		AbsentThresholdMinutes: absent,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces full > half > absent >= 0.
func (c Config) Validate() error {
	var errs validator.ValidationErrors

	if c.AbsentThresholdMinutes < 0 {
		errs.Add("absent_threshold_minutes", "must be greater than or equal to 0")
	}
	if c.HalfDayMinutes <= c.AbsentThresholdMinutes {
		errs.Add("half_day_minutes", "must be greater than absent_threshold_minutes")
	}
	if c.FullDayMinutes <= c.HalfDayMinutes {
		errs.Add("full_day_minutes", "must be greater than half_day_minutes")
	}

	return errs.Err()
}

// Classify maps call minutes to a status, evaluated high to low.
func (c Config) Classify(minutes int) Status {
	switch {
	case minutes >= c.FullDayMinutes:
		return StatusPresent
	case minutes >= c.HalfDayMinutes:
		return StatusHalfDay
	default:
		return StatusAbsent
	}
}

type CallAttendance struct {
	ID              string
	EmployeeID      string
	AttendanceDate  time.Time
	DurationMinutes int
	CallCount       int
	Status          Status
	Source          Source
	ManualReason    *string
	UpdatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeName *string
}

// NewDefaultAttendance is the record a manual update starts from when the
// reconciler has not produced one yet.
func NewDefaultAttendance(employeeID string, date time.Time) CallAttendance {
	return CallAttendance{
		EmployeeID:     employeeID,
		AttendanceDate: date,
		Status:         StatusAbsent,
		Source:         SourceAuto,
	}
}

func (a CallAttendance) Snapshot() Snapshot {
	return Snapshot{
		DurationMinutes: a.DurationMinutes,
		CallCount:       a.CallCount,
		Status:          a.Status,
	}
}

// Snapshot is the (duration, count, status) triple captured by the audit trail.
type Snapshot struct {
	DurationMinutes int
	CallCount       int
	Status          Status
}

// Audit is an immutable record of one manual update.
type Audit struct {
	ID               string
	CallAttendanceID string
	EmployeeID       string
	AttendanceDate   time.Time
	Old              Snapshot
	New              Snapshot
	Reason           string
	UpdatedBy        string
	IPAddress        *string
	UserAgent        *string
	Timestamp        time.Time
}

// EmployeeSummary aggregates attendance for one employee over a date range.
type EmployeeSummary struct {
	EmployeeID        string
	StartDate         time.Time
	EndDate           time.Time
	TotalDays         int
	PresentDays       int
	HalfDays          int
	AbsentDays        int
	TotalMinutes      int
	TotalCalls        int
	ManualUpdateCount int
}

// Summarize folds attendance rows into an EmployeeSummary.
func Summarize(employeeID string, start, end time.Time, rows []CallAttendance) EmployeeSummary {
	s := EmployeeSummary{EmployeeID: employeeID, StartDate: start, EndDate: end}
	for _, row := range rows {
		s.TotalDays++
		switch row.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusHalfDay:
			s.HalfDays++
		case StatusAbsent:
			s.AbsentDays++
		}
		s.TotalMinutes += row.DurationMinutes
		s.TotalCalls += row.CallCount
		if row.Source == SourceManual {
			s.ManualUpdateCount++
		}
	}
	return s
}

// AttendancePercentage counts half days as attended.
func (s EmployeeSummary) AttendancePercentage() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return float64(s.PresentDays+s.HalfDays) / float64(s.TotalDays) * 100
}
