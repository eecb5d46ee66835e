package callattendance

import (
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

const (
	MaxBulkRows       = 5000
	MaxReconcileRange = 92
)

// SubmitCallLogRequest is one (employee, date) call total pushed by a dialer.
type SubmitCallLogRequest struct {
	EmployeeID          string `json:"employee_id" validate:"required"`
	CallDate            string `json:"call_date" validate:"required,datetime=2006-01-02"`
	CallDurationMinutes *int   `json:"call_duration_minutes" validate:"required,min=0"`
	CallCount           *int   `json:"call_count" validate:"required,min=0"`
	Source              string `json:"source,omitempty" validate:"max=50"`
}

func (r *SubmitCallLogRequest) Validate() error {
	if r.Source == "" {
		r.Source = DefaultCallLogSource
	}
	return validator.Struct(r).Err()
}

// ToCallLog must only be called after Validate succeeded.
func (r SubmitCallLogRequest) ToCallLog() CallLog {
	date, _ := validator.IsValidDate(r.CallDate)
	return CallLog{
		EmployeeID:      r.EmployeeID,
		CallDate:        date,
		DurationMinutes: *r.CallDurationMinutes,
		CallCount:       *r.CallCount,
		Source:          r.Source,
	}
}

type BulkSubmitCallLogsRequest struct {
	CallLogs []SubmitCallLogRequest `json:"call_logs"`
	Source   string                 `json:"source,omitempty"`
}

func (r *BulkSubmitCallLogsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.CallLogs) == 0 {
		errs.Add("call_logs", "at least one call log is required")
	}
	if len(r.CallLogs) > MaxBulkRows {
		errs.Add("call_logs", "must not exceed 5000 rows")
	}
	if len(r.Source) > 50 {
		errs.Add("source", "must be at most 50")
	}

	return errs.Err()
}

type RowError struct {
	Row        int    `json:"row"`
	EmployeeID string `json:"employee_id,omitempty"`
	Message    string `json:"message"`
}

type BulkSubmitResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

type CallLogFilter struct {
	Date       string  `json:"date"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (f *CallLogFilter) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(f.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	return errs.Err()
}

type CallLogResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        *string `json:"employee_name,omitempty"`
	CallDate            string  `json:"call_date"`
	CallDurationMinutes int     `json:"call_duration_minutes"`
	CallCount           int     `json:"call_count"`
	Source              string  `json:"source"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type ManualUpdateRequest struct {
	EmployeeID          string `json:"employee_id" validate:"required"`
	AttendanceDate      string `json:"attendance_date" validate:"required,datetime=2006-01-02"`
	CallDurationMinutes *int   `json:"call_duration_minutes" validate:"required,min=0"`
	CallCount           *int   `json:"call_count" validate:"required,min=0"`
	Reason              string `json:"reason"`
}

func (r *ManualUpdateRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}

	return errs.Err()
}

type ReconcileRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (r *ReconcileRequest) Validate() error {
	return validator.Struct(r).Err()
}

type ReconcileRangeRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r *ReconcileRangeRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	if end.Before(start) {
		errs.Add("end_date", "must be on or after start_date")
	} else if int(end.Sub(start).Hours()/24)+1 > MaxReconcileRange {
		errs.Add("end_date", "range must not exceed 92 days")
	}

	return errs.Err()
}

// Reconcile outcome reasons
const (
	ReasonSuccess       = "success"
	ReasonNonWorkingDay = "non-working-day"
)

type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type ReconcileResult struct {
	RunID     string            `json:"run_id"`
	Date      string            `json:"date"`
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
	Failed    []EmployeeFailure `json:"failed"`
	Reason    string            `json:"reason"`
}

type DayOutcome struct {
	Date   string           `json:"date"`
	Result *ReconcileResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type ReconcileRangeResult struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Days      []DayOutcome `json:"days"`
}

const (
	ReconcileStatusUpToDate = "up_to_date"
	ReconcileStatusPending  = "pending"
)

// ReconcileStatusResponse reports whether today's reconciliation has run.
type ReconcileStatusResponse struct {
	Today               string  `json:"today"`
	TodayRecords        int64   `json:"today_records"`
	YesterdayRecords    int64   `json:"yesterday_records"`
	LastAutoCalculation *string `json:"last_auto_calculation"`
	Status              string  `json:"status"`
}

type CreateConfigRequest struct {
	FullDayMinutes         *int `json:"full_day_minutes" validate:"required"`
	HalfDayMinutes         *int `json:"half_day_minutes" validate:"required"`
	AbsentThresholdMinutes *int `json:"absent_threshold_minutes" validate:"required"`
	Activate               bool `json:"activate"`
}

func (r *CreateConfigRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	_, err := NewConfig(*r.FullDayMinutes, *r.HalfDayMinutes, *r.AbsentThresholdMinutes)
	return err
}

type ConfigResponse struct {
	ID                     string  `json:"id"`
	Version                int     `json:"version"`
	FullDayMinutes         int     `json:"full_day_minutes"`
	HalfDayMinutes         int     `json:"half_day_minutes"`
	AbsentThresholdMinutes int     `json:"absent_threshold_minutes"`
	IsActive               bool    `json:"is_active"`
	CreatedBy              *string `json:"created_by,omitempty"`
	CreatedAt              string  `json:"created_at"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	Source     *string `json:"source,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePaging(&errs, &f.Page, &f.Limit)
	validateRange(&errs, f.StartDate, f.EndDate)

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: PRESENT, HALF_DAY, ABSENT")
	}
	if f.Source != nil && !Source(*f.Source).IsValid() {
		errs.Add("source", "source must be one of: AUTO, MANUAL")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID                  string  `json:"id"`
	EmployeeID          string  `json:"employee_id"`
	EmployeeName        *string `json:"employee_name,omitempty"`
	AttendanceDate      string  `json:"attendance_date"`
	CallDurationMinutes int     `json:"call_duration_minutes"`
	CallCount           int     `json:"call_count"`
	Status              string  `json:"status"`
	Source              string  `json:"source"`
	ManualReason        *string `json:"manual_reason,omitempty"`
	UpdatedBy           *string `json:"updated_by,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type ListAttendanceResponse struct {
	Items      []AttendanceResponse `json:"items"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

type ManualUpdateResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Audit      AuditResponse      `json:"audit"`
}

type SummaryRequest struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	validateRange(&errs, r.StartDate, r.EndDate)
	return errs.Err()
}

type SummaryResponse struct {
	EmployeeID           string  `json:"employee_id"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	HalfDays             int     `json:"half_days"`
	AbsentDays           int     `json:"absent_days"`
	TotalCallMinutes     int     `json:"total_call_minutes"`
	TotalCalls           int     `json:"total_calls"`
	ManualUpdates        int     `json:"manual_updates"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type AuditFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // on attendance_date
	EndDate    *string `json:"end_date,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AuditFilter) Validate() error {
	var errs validator.ValidationErrors
	validatePaging(&errs, &f.Page, &f.Limit)
	validateRange(&errs, f.StartDate, f.EndDate)
	return errs.Err()
}

type SnapshotResponse struct {
	CallDurationMinutes int    `json:"call_duration_minutes"`
	CallCount           int    `json:"call_count"`
	Status              string `json:"status"`
}

type AuditResponse struct {
	ID               string           `json:"id"`
	CallAttendanceID string           `json:"call_attendance_id"`
	EmployeeID       string           `json:"employee_id"`
	AttendanceDate   string           `json:"attendance_date"`
	Old              SnapshotResponse `json:"old"`
	New              SnapshotResponse `json:"new"`
	Reason           string           `json:"reason"`
	UpdatedBy        string           `json:"updated_by"`
	IPAddress        *string          `json:"ip_address,omitempty"`
	UserAgent        *string          `json:"user_agent,omitempty"`
	Timestamp        string           `json:"timestamp"`
}

type ListAuditResponse struct {
	Items      []AuditResponse `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type PurgeAuditRequest struct {
	OlderThanDays int `json:"older_than_days" validate:"min=1"`
}

func (r *PurgeAuditRequest) Validate() error {
	return validator.Struct(r).Err()
}

type PurgeAuditResponse struct {
	Deleted int64  `json:"deleted"`
	Cutoff  string `json:"cutoff"`
}

func validatePaging(errs *validator.ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1 // Default page
	}

	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20 // Default limit
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func validateRange(errs *validator.ValidationErrors, startDate, endDate *string) {
	var start, end time.Time
	var okStart, okEnd bool

	if startDate != nil {
		if start, okStart = validator.IsValidDate(*startDate); !okStart {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if endDate != nil {
		if end, okEnd = validator.IsValidDate(*endDate); !okEnd {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
}
