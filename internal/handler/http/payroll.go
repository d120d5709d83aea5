package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Own records
	ListMyRecords(w http.ResponseWriter, r *http.Request)
	GetMyStats(w http.ResponseWriter, r *http.Request)

	// Employees
	ListEmployeeRecords(w http.ResponseWriter, r *http.Request)
	GetEmployeeStats(w http.ResponseWriter, r *http.Request)

	// Periods
	ListPeriodRecords(w http.ResponseWriter, r *http.Request)
	GetPeriodSummary(w http.ResponseWriter, r *http.Request)
	PayAll(w http.ResponseWriter, r *http.Request)
	VoidAll(w http.ResponseWriter, r *http.Request)

	// Records
	GetBreakdown(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Void(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== OWN RECORDS ==========

func (h *payrollHandlerImpl) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetMyStats(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.EmployeeStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== EMPLOYEES ==========

func (h *payrollHandlerImpl) ListEmployeeRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.EmployeeStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PERIODS ==========

func (h *payrollHandlerImpl) ListPeriodRecords(w http.ResponseWriter, r *http.Request) {
	period, err := parseDateParam(r, "period")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListByPeriod(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parseDateParam(r, "period")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.PeriodSummary(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) PayAll(w http.ResponseWriter, r *http.Request) {
	period, err := parseDateParam(r, "period")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BulkPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PayAllPending(r.Context(), period, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, batchMessage(result), result)
}

func (h *payrollHandlerImpl) VoidAll(w http.ResponseWriter, r *http.Request) {
	period, err := parseDateParam(r, "period")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BulkVoidRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.VoidAllPending(r.Context(), period, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, batchMessage(result), result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GetBreakdown(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Pay(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record paid", result)
}

func (h *payrollHandlerImpl) Void(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Void(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record voided", result)
}

func batchMessage(b payroll.BatchResponse) string {
	if b.Failed == 0 {
		return "All records processed"
	}
	return "Some records could not be processed"
}
