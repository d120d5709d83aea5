package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/aguinaldo"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/hrapi"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
)

// HandleError maps domain and upstream errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Session and auth errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, session.ErrNoSession):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrRoleRequired):
		Forbidden(w, "Your role cannot access this resource")
	case errors.Is(err, session.ErrMissingEmployeeID):
		Forbidden(w, "Your account is not linked to an employee")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDayComplete):
		Conflict(w, "Attendance for today is already complete")
	case errors.Is(err, attendance.ErrPunchInFlight):
		Conflict(w, "A punch is already being submitted")
	case errors.Is(err, attendance.ErrInvalidEmployeeID):
		BadRequest(w, "Invalid employee ID", nil)
	case errors.Is(err, attendance.ErrInconsistentStatus):
		BadGateway(w, "The HR service returned an inconsistent attendance status")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRecordVoided):
		Conflict(w, "Payroll record is voided")
	case errors.Is(err, payroll.ErrRecordNotPending):
		Conflict(w, "Payroll record is not pending")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNetTotalMismatch),
		errors.Is(err, payroll.ErrNegativeAmount),
		errors.Is(err, payroll.ErrPaidWithoutDate),
		errors.Is(err, payroll.ErrInvalidStatus):
		BadGateway(w, "The HR service returned an inconsistent payroll record")

	// Aguinaldo domain errors
	case errors.Is(err, aguinaldo.ErrBonusRecordNotFound):
		NotFound(w, "Aguinaldo record not found")
	case errors.Is(err, aguinaldo.ErrRecordVoided):
		Conflict(w, "Aguinaldo record is voided")
	case errors.Is(err, aguinaldo.ErrRecordNotPending):
		Conflict(w, "Aguinaldo record is not pending")
	case errors.Is(err, aguinaldo.ErrInvalidYear):
		BadRequest(w, "Invalid aguinaldo year", nil)
	case errors.Is(err, aguinaldo.ErrInvalidDaysWorked),
		errors.Is(err, aguinaldo.ErrNegativeAmount),
		errors.Is(err, aguinaldo.ErrPaidWithoutDate),
		errors.Is(err, aguinaldo.ErrInvalidStatus):
		BadGateway(w, "The HR service returned an inconsistent aguinaldo record")

	default:
		handleUpstreamError(w, err)
	}
}

// handleUpstreamError passes the server's message through for failed
// upstream calls.
func handleUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *hrapi.APIError
	if !errors.As(err, &apiErr) {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch {
	case errors.Is(err, hrapi.ErrValidation):
		UnprocessableEntity(w, apiErr.Message)
	case errors.Is(err, hrapi.ErrStateConflict):
		Conflict(w, apiErr.Message)
	case errors.Is(err, hrapi.ErrNotFound):
		NotFound(w, apiErr.Message)
	case errors.Is(err, hrapi.ErrUnauthorized):
		if apiErr.StatusCode == http.StatusUnauthorized {
			Unauthorized(w, apiErr.Message)
			return
		}
		Forbidden(w, apiErr.Message)
	case errors.Is(err, hrapi.ErrNetwork):
		ServiceUnavailable(w, apiErr.Message)
	default:
		slog.Error("Upstream error", "status", apiErr.StatusCode, "error", err)
		BadGateway(w, apiErr.Message)
	}
}
