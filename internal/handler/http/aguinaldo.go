package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/aguinaldo"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
)

type AguinaldoHandler interface {
	ListMyRecords(w http.ResponseWriter, r *http.Request)
	GetMyStats(w http.ResponseWriter, r *http.Request)

	ListEmployeeRecords(w http.ResponseWriter, r *http.Request)
	GetEmployeeStats(w http.ResponseWriter, r *http.Request)

	ListYearRecords(w http.ResponseWriter, r *http.Request)
	GetYearSummary(w http.ResponseWriter, r *http.Request)
	PayAll(w http.ResponseWriter, r *http.Request)
	VoidAll(w http.ResponseWriter, r *http.Request)

	Pay(w http.ResponseWriter, r *http.Request)
	Void(w http.ResponseWriter, r *http.Request)
	LateCheck(w http.ResponseWriter, r *http.Request)
}

type aguinaldoHandlerImpl struct {
	aguinaldoService aguinaldo.AguinaldoService
}

func NewAguinaldoHandler(aguinaldoService aguinaldo.AguinaldoService) AguinaldoHandler {
	return &aguinaldoHandlerImpl{aguinaldoService: aguinaldoService}
}

func (h *aguinaldoHandlerImpl) ListMyRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) GetMyStats(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.EmployeeStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) ListEmployeeRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.EmployeeStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) ListYearRecords(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.ListByYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) GetYearSummary(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.YearSummary(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *aguinaldoHandlerImpl) PayAll(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BulkPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.aguinaldoService.PayAllPending(r.Context(), year, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, batchMessage(result.BatchResponse), result)
}

func (h *aguinaldoHandlerImpl) VoidAll(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.BulkVoidRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.aguinaldoService.VoidAllPending(r.Context(), year, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, batchMessage(result), result)
}

func (h *aguinaldoHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.aguinaldoService.Pay(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Aguinaldo paid"
	if result.LatePayment {
		message = "Aguinaldo paid after the December 20 legal deadline"
	}
	response.SuccessWithMessage(w, message, result)
}

func (h *aguinaldoHandlerImpl) Void(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.aguinaldoService.Void(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Aguinaldo voided", result)
}

// LateCheck tells the portal whether to warn before a payment date is confirmed.
func (h *aguinaldoHandlerImpl) LateCheck(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("payment_date")
	date, ok := validator.IsValidDate(raw)
	if !ok {
		response.HandleError(w, validator.ValidationErrors{{Field: "payment_date", Message: "payment_date must be in YYYY-MM-DD format"}})
		return
	}

	response.Success(w, aguinaldo.NewLateCheck(date))
}
