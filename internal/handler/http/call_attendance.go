package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CallAttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ManualUpdate(w http.ResponseWriter, r *http.Request)

	Reconcile(w http.ResponseWriter, r *http.Request)
	ReconcileRange(w http.ResponseWriter, r *http.Request)
	ReconcileStatus(w http.ResponseWriter, r *http.Request)

	CreateConfig(w http.ResponseWriter, r *http.Request)
	ActivateConfig(w http.ResponseWriter, r *http.Request)
	GetActiveConfig(w http.ResponseWriter, r *http.Request)
	ListConfigs(w http.ResponseWriter, r *http.Request)

	ListAudit(w http.ResponseWriter, r *http.Request)
	PurgeAudit(w http.ResponseWriter, r *http.Request)
}

type callAttendanceHandlerImpl struct {
	callAttendanceService callattendance.CallAttendanceService
}

func NewCallAttendanceHandler(callAttendanceService callattendance.CallAttendanceService) CallAttendanceHandler {
	return &callAttendanceHandlerImpl{
		callAttendanceService: callAttendanceService,
	}
}

func attendanceFilterFrom(r *http.Request) callattendance.AttendanceFilter {
	page, limit := pagination(r)
	return callattendance.AttendanceFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
		Status:     queryPtr(r, "status"),
		Source:     queryPtr(r, "source"),
		Page:       page,
		Limit:      limit,
	}
}

// List implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.callAttendanceService.ListAttendance(r.Context(), actor, attendanceFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Summary implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := callattendance.SummaryRequest{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
	}
	// Employees may omit their own id
	if req.EmployeeID == "" && actor.EmployeeID != nil {
		req.EmployeeID = *actor.EmployeeID
	}

	result, err := h.callAttendanceService.GetEmployeeSummary(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.callAttendanceService.ExportAttendanceReport(r.Context(), actor, attendanceFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "call_attendance_report.xlsx", xlsxContentType, data)
}

// ManualUpdate implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ManualUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req callattendance.ManualUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.callAttendanceService.ManualUpdate(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Call attendance updated successfully", result)
}

// Reconcile implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req callattendance.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	date, _ := validator.IsValidDate(req.Date)

	result, err := h.callAttendanceService.ReconcileDay(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ReconcileStatus implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ReconcileStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.callAttendanceService.ReconcileStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// ReconcileRange implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ReconcileRange(w http.ResponseWriter, r *http.Request) {
	var req callattendance.ReconcileRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	result, err := h.callAttendanceService.ReconcileRange(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateConfig implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) CreateConfig(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req callattendance.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.callAttendanceService.CreateConfig(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance configuration created", result)
}

// ActivateConfig implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ActivateConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.callAttendanceService.ActivateConfig(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance configuration activated", result)
}

// GetActiveConfig implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) GetActiveConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.callAttendanceService.GetActiveConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListConfigs implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ListConfigs(w http.ResponseWriter, r *http.Request) {
	results, err := h.callAttendanceService.ListConfigs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListAudit implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) ListAudit(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	filter := callattendance.AuditFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		StartDate:  queryPtr(r, "start_date"),
		EndDate:    queryPtr(r, "end_date"),
		Page:       page,
		Limit:      limit,
	}

	result, err := h.callAttendanceService.ListAudit(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// PurgeAudit implements CallAttendanceHandler.
func (h *callAttendanceHandlerImpl) PurgeAudit(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req callattendance.PurgeAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.callAttendanceService.PurgeAudit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Audit trail purged", result)
}
