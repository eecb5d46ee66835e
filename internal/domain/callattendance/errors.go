package callattendance

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks errors that persist until an administrator fixes
// the attendance configuration.
var ErrConfiguration = errors.New("configuration error")

var (
	ErrNoActiveConfig = fmt.Errorf("%w: no active attendance configuration", ErrConfiguration)

	ErrConfigNotFound     = errors.New("attendance configuration not found")
	ErrAttendanceNotFound = errors.New("call attendance not found")
	ErrAuditNotFound      = errors.New("call attendance audit not found")

	ErrManualUpdateForbidden = errors.New("actor lacks manual update authority")
	ErrViewForbidden         = errors.New("actor cannot view this employee's attendance")
	ErrPurgeForbidden        = errors.New("audit retention cleanup requires admin privilege")

	ErrDuplicateSubmission = errors.New("a manual update for this employee and date was submitted recently")

	ErrInvalidDateRange    = errors.New("start date must be on or before end date")
	ErrDateRangeTooLarge   = errors.New("date range is too large")
	ErrUnsupportedFileType = errors.New("unsupported file type, expected .xlsx or .csv")
	ErrEmptyUpload         = errors.New("uploaded file has no data rows")
	ErrInvalidRetention    = errors.New("retention days must be at least 1")
)
