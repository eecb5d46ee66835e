package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
)

const maxUploadSize = 10 << 20

type CallLogHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	BulkSubmit(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Template(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type callLogHandlerImpl struct {
	callAttendanceService callattendance.CallAttendanceService
}

func NewCallLogHandler(callAttendanceService callattendance.CallAttendanceService) CallLogHandler {
	return &callLogHandlerImpl{
		callAttendanceService: callAttendanceService,
	}
}

// Submit implements CallLogHandler.
func (h *callLogHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req callattendance.SubmitCallLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, created, err := h.callAttendanceService.SubmitCallLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if created {
		response.Created(w, "Call log recorded", result)
		return
	}
	response.SuccessWithMessage(w, "Call log updated", result)
}

// BulkSubmit implements CallLogHandler.
func (h *callLogHandlerImpl) BulkSubmit(w http.ResponseWriter, r *http.Request) {
	var req callattendance.BulkSubmitCallLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.callAttendanceService.BulkSubmitCallLogs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Import implements CallLogHandler.
func (h *callLogHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.callAttendanceService.ImportCallLogs(r.Context(), file, fileHeader.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Template implements CallLogHandler.
func (h *callLogHandlerImpl) Template(w http.ResponseWriter, r *http.Request) {
	data, err := h.callAttendanceService.CallLogTemplate(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "call_log_template.xlsx", xlsxContentType, data)
}

// List implements CallLogHandler.
func (h *callLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := callattendance.CallLogFilter{
		Date:       r.URL.Query().Get("date"),
		EmployeeID: queryPtr(r, "employee_id"),
	}

	results, err := h.callAttendanceService.ListCallLogs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
