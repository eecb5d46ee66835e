package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/incentive"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type IncentiveHandler interface {
	ListSlabs(w http.ResponseWriter, r *http.Request)
	ReplaceSlabs(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)

	CreateLoanType(w http.ResponseWriter, r *http.Request)
	ListLoanTypes(w http.ResponseWriter, r *http.Request)

	CreateLead(w http.ResponseWriter, r *http.Request)
	UpdateLeadStatus(w http.ResponseWriter, r *http.Request)
	ListLeads(w http.ResponseWriter, r *http.Request)

	Calculate(w http.ResponseWriter, r *http.Request)
	BulkCalculate(w http.ResponseWriter, r *http.Request)
	ListCalculations(w http.ResponseWriter, r *http.Request)

	SetTarget(w http.ResponseWriter, r *http.Request)
	ListTargets(w http.ResponseWriter, r *http.Request)
	AutoCreateTargets(w http.ResponseWriter, r *http.Request)

	Performance(w http.ResponseWriter, r *http.Request)
	Eligibility(w http.ResponseWriter, r *http.Request)
}

type incentiveHandlerImpl struct {
	incentiveService incentive.IncentiveService
}

func NewIncentiveHandler(incentiveService incentive.IncentiveService) IncentiveHandler {
	return &incentiveHandlerImpl{
		incentiveService: incentiveService,
	}
}

// ListSlabs implements IncentiveHandler.
func (h *incentiveHandlerImpl) ListSlabs(w http.ResponseWriter, r *http.Request) {
	results, err := h.incentiveService.ListSlabs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ReplaceSlabs implements IncentiveHandler.
func (h *incentiveHandlerImpl) ReplaceSlabs(w http.ResponseWriter, r *http.Request) {
	var req incentive.ReplaceSlabsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	results, err := h.incentiveService.ReplaceSlabs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Incentive slabs replaced", results)
}

// Preview implements IncentiveHandler.
func (h *incentiveHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req incentive.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.PreviewIncentive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateLoanType implements IncentiveHandler.
func (h *incentiveHandlerImpl) CreateLoanType(w http.ResponseWriter, r *http.Request) {
	var req incentive.CreateLoanTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.CreateLoanType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan type created", result)
}

// ListLoanTypes implements IncentiveHandler.
func (h *incentiveHandlerImpl) ListLoanTypes(w http.ResponseWriter, r *http.Request) {
	results, err := h.incentiveService.ListLoanTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// CreateLead implements IncentiveHandler. Without lead.manage the lead is
// always booked to the caller.
func (h *incentiveHandlerImpl) CreateLead(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req incentive.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if !actor.Can(user.PermissionLeadManage) {
		if actor.EmployeeID == nil {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		req.EmployeeID = *actor.EmployeeID
	}

	result, err := h.incentiveService.CreateLead(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Lead created", result)
}

// UpdateLeadStatus implements IncentiveHandler.
func (h *incentiveHandlerImpl) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req incentive.UpdateLeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.UpdateLeadStatus(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lead status updated", result)
}

// ListLeads implements IncentiveHandler.
func (h *incentiveHandlerImpl) ListLeads(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, limit := pagination(r)
	filter := incentive.LeadFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Status:     queryPtr(r, "status"),
		Month:      queryPtr(r, "month"),
		Page:       page,
		Limit:      limit,
	}

	if !actor.Can(user.PermissionLeadManage) {
		if actor.EmployeeID == nil {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		filter.EmployeeID = actor.EmployeeID
	}

	result, err := h.incentiveService.ListLeads(r.Context(), filter)
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

// Calculate implements IncentiveHandler.
func (h *incentiveHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req incentive.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// BulkCalculate implements IncentiveHandler.
func (h *incentiveHandlerImpl) BulkCalculate(w http.ResponseWriter, r *http.Request) {
	var req incentive.BulkCalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.BulkCalculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListCalculations implements IncentiveHandler.
func (h *incentiveHandlerImpl) ListCalculations(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID, err := scopeIncentiveEmployee(actor, queryPtr(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := incentive.CalculationFilter{
		Month:      r.URL.Query().Get("month"),
		EmployeeID: employeeID,
	}

	results, err := h.incentiveService.ListCalculations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// SetTarget implements IncentiveHandler.
func (h *incentiveHandlerImpl) SetTarget(w http.ResponseWriter, r *http.Request) {
	var req incentive.SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.incentiveService.SetTarget(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sales target saved", result)
}

// ListTargets implements IncentiveHandler.
func (h *incentiveHandlerImpl) ListTargets(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID, err := scopeIncentiveEmployee(actor, queryPtr(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.incentiveService.ListTargets(r.Context(), incentive.TargetFilter{
		Month:      r.URL.Query().Get("month"),
		EmployeeID: employeeID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// AutoCreateTargets implements IncentiveHandler. An empty body targets the current month.
func (h *incentiveHandlerImpl) AutoCreateTargets(w http.ResponseWriter, r *http.Request) {
	var req incentive.AutoTargetRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.incentiveService.AutoCreateTargets(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Performance implements IncentiveHandler.
func (h *incentiveHandlerImpl) Performance(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID, err := ownEmployeeByDefault(actor, queryPtr(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.incentiveService.PerformanceSummary(r.Context(), incentive.PerformanceRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Eligibility implements IncentiveHandler.
func (h *incentiveHandlerImpl) Eligibility(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID, err := ownEmployeeByDefault(actor, queryPtr(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.incentiveService.SalaryEligibility(r.Context(), incentive.EligibilityRequest{
		EmployeeID: employeeID,
		Month:      r.URL.Query().Get("month"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// scopeIncentiveEmployee pins callers without incentive.view_all to their own employee.
func scopeIncentiveEmployee(actor user.Actor, requested *string) (*string, error) {
	if actor.Can(user.PermissionIncentiveViewAll) {
		return requested, nil
	}
	if actor.EmployeeID == nil {
		return nil, user.ErrInsufficientPermissions
	}
	return actor.EmployeeID, nil
}

// ownEmployeeByDefault is scopeIncentiveEmployee for single-employee reads,
// falling back to the caller's employee when none is requested.
func ownEmployeeByDefault(actor user.Actor, requested *string) (string, error) {
	scoped, err := scopeIncentiveEmployee(actor, requested)
	if err != nil {
		return "", err
	}
	if scoped == nil {
		scoped = actor.EmployeeID
	}
	if scoped == nil {
		return "", nil
	}
	return *scoped, nil
}
