package callattendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
)

var callLogColumns = []string{"employee_id", "call_date", "call_duration_minutes", "call_count"}

// pendingRow is one call log awaiting the bulk write, tagged with its row
// number in the caller's payload.
type pendingRow struct {
	row int
	req callattendance.SubmitCallLogRequest
}

// SubmitCallLog implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) SubmitCallLog(ctx context.Context, req callattendance.SubmitCallLogRequest) (callattendance.CallLogResponse, bool, error) {
	if err := req.Validate(); err != nil {
		return callattendance.CallLogResponse{}, false, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return callattendance.CallLogResponse{}, false, err
	}

	saved, created, err := s.callLogs.Upsert(ctx, req.ToCallLog())
	if err != nil {
		return callattendance.CallLogResponse{}, false, fmt.Errorf("failed to upsert call log: %w", err)
	}
	return toCallLogResponse(saved), created, nil
}

// BulkSubmitCallLogs implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) BulkSubmitCallLogs(ctx context.Context, req callattendance.BulkSubmitCallLogsRequest) (callattendance.BulkSubmitResult, error) {
	if err := req.Validate(); err != nil {
		return callattendance.BulkSubmitResult{}, err
	}

	rows := make([]pendingRow, 0, len(req.CallLogs))
	for i, log := range req.CallLogs {
		if log.Source == "" {
			log.Source = req.Source
		}
		rows = append(rows, pendingRow{row: i + 1, req: log})
	}
	return s.writeCallLogs(ctx, rows, nil)
}

// ImportCallLogs implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ImportCallLogs(ctx context.Context, file io.Reader, filename string) (callattendance.BulkSubmitResult, error) {
	records, err := spreadsheet.ReadRows(file, filename)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
			return callattendance.BulkSubmitResult{}, callattendance.ErrUnsupportedFileType
		}
		return callattendance.BulkSubmitResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(records) < 2 {
		return callattendance.BulkSubmitResult{}, callattendance.ErrEmptyUpload
	}

	index := spreadsheet.HeaderIndex(records[0])
	var missing validator.ValidationErrors
	for _, col := range callLogColumns {
		if _, ok := index[col]; !ok {
			missing.Add("file", "missing column "+col)
		}
	}
	if len(missing) > 0 {
		return callattendance.BulkSubmitResult{}, missing
	}

	var rows []pendingRow
	var rowErrors []callattendance.RowError
	for i, record := range records[1:] {
		if spreadsheet.IsBlank(record) {
			continue
		}
		rowNumber := i + 2 // header is row 1

		req, err := parseCallLogRecord(record, index)
		if err != nil {
			rowErrors = append(rowErrors, callattendance.RowError{Row: rowNumber, EmployeeID: req.EmployeeID, Message: err.Error()})
			continue
		}
		req.Source = callattendance.BulkUploadSource
		rows = append(rows, pendingRow{row: rowNumber, req: req})
	}

	if len(rows) == 0 && len(rowErrors) == 0 {
		return callattendance.BulkSubmitResult{}, callattendance.ErrEmptyUpload
	}
	if len(rows)+len(rowErrors) > callattendance.MaxBulkRows {
		var errs validator.ValidationErrors
		errs.Add("file", "must not exceed 5000 rows")
		return callattendance.BulkSubmitResult{}, errs
	}

	result, err := s.writeCallLogs(ctx, rows, rowErrors)
	if err != nil {
		return callattendance.BulkSubmitResult{}, err
	}

	slog.Info("call logs imported", "file", filename, "created", result.Created, "updated", result.Updated, "errors", len(result.Errors))
	return result, nil
}

func parseCallLogRecord(record []string, index map[string]int) (callattendance.SubmitCallLogRequest, error) {
	req := callattendance.SubmitCallLogRequest{
		EmployeeID: strings.TrimSpace(spreadsheet.Cell(record, index["employee_id"])),
	}

	date, err := spreadsheet.ParseDate(spreadsheet.Cell(record, index["call_date"]))
	if err != nil {
		return req, fmt.Errorf("call_date: %w", err)
	}
	req.CallDate = date.Format(validator.DateLayout)

	duration, err := parseCount(spreadsheet.Cell(record, index["call_duration_minutes"]))
	if err != nil {
		return req, fmt.Errorf("call_duration_minutes: %w", err)
	}
	req.CallDurationMinutes = &duration

	count, err := parseCount(spreadsheet.Cell(record, index["call_count"]))
	if err != nil {
		return req, fmt.Errorf("call_count: %w", err)
	}
	req.CallCount = &count

	return req, nil
}

// parseCount accepts whole numbers, including the "12.0" spreadsheets emit.
func parseCount(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("is required")
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("must be a whole number, got %q", value)
	}
	return int(f), nil
}

// writeCallLogs validates rows, drops unknown employees and upserts the rest
// in one transaction.
func (s *CallAttendanceServiceImpl) writeCallLogs(ctx context.Context, rows []pendingRow, rowErrors []callattendance.RowError) (callattendance.BulkSubmitResult, error) {
	result := callattendance.BulkSubmitResult{Errors: rowErrors}

	valid := make([]pendingRow, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if err := r.req.Validate(); err != nil {
			result.Errors = append(result.Errors, callattendance.RowError{Row: r.row, EmployeeID: r.req.EmployeeID, Message: err.Error()})
			continue
		}
		valid = append(valid, r)
		ids = append(ids, r.req.EmployeeID)
	}

	if len(valid) > 0 {
		known, err := s.employees.ExistingIDs(ctx, ids)
		if err != nil {
			return callattendance.BulkSubmitResult{}, fmt.Errorf("failed to resolve employees: %w", err)
		}

		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			for _, r := range valid {
				if !known[r.req.EmployeeID] {
					result.Errors = append(result.Errors, callattendance.RowError{Row: r.row, EmployeeID: r.req.EmployeeID, Message: "employee not found"})
					continue
				}

				_, created, err := s.callLogs.Upsert(txCtx, r.req.ToCallLog())
				if err != nil {
					return fmt.Errorf("failed to upsert call log at row %d: %w", r.row, err)
				}
				if created {
					result.Created++
				} else {
					result.Updated++
				}
			}
			return nil
		})
		if err != nil {
			return callattendance.BulkSubmitResult{}, err
		}
	}

	if result.Errors == nil {
		result.Errors = []callattendance.RowError{}
	}
	return result, nil
}

// CallLogTemplate implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) CallLogTemplate(ctx context.Context) ([]byte, error) {
	example := []interface{}{"EMPLOYEE-UUID", s.today().Format(validator.DateLayout), 180, 42}
	return spreadsheet.Build(spreadsheet.Sheet{
		Name:   "Call Logs",
		Header: callLogColumns,
		Rows:   [][]interface{}{example},
	})
}

// ListCallLogs implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ListCallLogs(ctx context.Context, filter callattendance.CallLogFilter) ([]callattendance.CallLogResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	date, _ := validator.IsValidDate(filter.Date)

	logs, err := s.callLogs.ListByDate(ctx, date, filter.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}

	out := make([]callattendance.CallLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, toCallLogResponse(log))
	}
	return out, nil
}
