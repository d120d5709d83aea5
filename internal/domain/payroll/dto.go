package payroll

import (
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// ========== RECORD DTOs ==========

type RecordResponse struct {
	ID              int64            `json:"id"`
	EmployeeID      int64            `json:"employee_id"`
	EmployeeName    *string          `json:"employee_name,omitempty"`
	Period          string           `json:"period"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeAmount  *decimal.Decimal `json:"overtime_amount,omitempty"`
	Bonuses         *decimal.Decimal `json:"bonuses,omitempty"`
	GrossTotal      decimal.Decimal  `json:"gross_total"`
	DeductionsTotal decimal.Decimal  `json:"deductions_total"`
	NetTotal        decimal.Decimal  `json:"net_total"`
	PaymentDate     *string          `json:"payment_date,omitempty"`
	Status          Status           `json:"status"`
}

func ToRecordResponse(r Record) RecordResponse {
	var paymentDate *string
	if r.PaymentDate != nil {
		str := r.PaymentDate.Format(DateLayout)
		paymentDate = &str
	}

	return RecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Period:          r.Period.Format(DateLayout),
		BaseSalary:      r.BaseSalary,
		OvertimeHours:   r.OvertimeHours,
		OvertimeAmount:  r.OvertimeAmount,
		Bonuses:         r.Bonuses,
		GrossTotal:      r.GrossTotal,
		DeductionsTotal: r.DeductionsTotal,
		NetTotal:        r.NetTotal,
		PaymentDate:     paymentDate,
		Status:          r.Status,
	}
}

func ToRecordResponses(records []Record) []RecordResponse {
	result := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, ToRecordResponse(r))
	}
	return result
}

// ========== BREAKDOWN ==========

// BreakdownCaveat is shown next to every reconstructed breakdown.
const BreakdownCaveat = "Desglose aproximado: la planilla real se calcula en el servidor y puede incluir tramos, topes u otras deducciones."

// BreakdownResponse is a display-only split of the deduction total. It is
// never sent back to the server.
type BreakdownResponse struct {
	RecordID                  int64           `json:"record_id,omitempty"`
	GrossTotal                decimal.Decimal `json:"gross_total"`
	DeductionsTotal           decimal.Decimal `json:"deductions_total"`
	SocialSecurityRate        decimal.Decimal `json:"social_security_rate"`
	SocialSecurityWithholding decimal.Decimal `json:"social_security_withholding"`
	IncomeTaxWithholding      decimal.Decimal `json:"income_tax_withholding"`
	NetTotal                  decimal.Decimal `json:"net_total"`
	Approximate               bool            `json:"approximate"`
	Caveat                    string          `json:"caveat"`
}

// ========== STATISTICS ==========

type EmployeeStatsResponse struct {
	EmployeeID        int64           `json:"employee_id"`
	RecordCount       int             `json:"record_count"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	PendingCount      int             `json:"pending_count"`
	MostRecentPayment *RecordResponse `json:"most_recent_payment,omitempty"`
}

type PeriodSummaryResponse struct {
	Period       string          `json:"period"`
	RecordCount  int             `json:"record_count"`
	PendingCount int             `json:"pending_count"`
	PaidCount    int             `json:"paid_count"`
	VoidedCount  int             `json:"voided_count"`
	TotalNet     decimal.Decimal `json:"total_net"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

// ========== TRANSITIONS ==========

type PayRequest struct {
	PaymentDate string `json:"payment_date" validate:"required,datetime=2006-01-02"`
}

func (r *PayRequest) Validate() (time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, err
	}
	date, _ := validator.IsValidDate(r.PaymentDate)
	return date, nil
}

type BulkPayRequest struct {
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	RecordIDs   []int64 `json:"record_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

func (r *BulkPayRequest) Validate() (time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, err
	}
	date, _ := validator.IsValidDate(r.PaymentDate)
	return date, nil
}

type BulkVoidRequest struct {
	RecordIDs []int64 `json:"record_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

func (r *BulkVoidRequest) Validate() error {
	return validator.Struct(r)
}

// ========== BATCH ==========

type OutcomeResponse struct {
	RecordID  int64  `json:"record_id"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

type BatchResponse struct {
	BatchID   string            `json:"batch_id"`
	Operation string            `json:"operation"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    []string          `json:"errors"`
	Outcomes  []OutcomeResponse `json:"outcomes"`
}

func ToBatchResponse(r batch.Result) BatchResponse {
	outcomes := make([]OutcomeResponse, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out := OutcomeResponse{RecordID: o.ItemID, Succeeded: o.Succeeded()}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		outcomes = append(outcomes, out)
	}

	return BatchResponse{
		BatchID:   r.ID.String(),
		Operation: r.Operation,
		Succeeded: r.Succeeded(),
		Failed:    r.Failed(),
		Errors:    r.Errors(),
		Outcomes:  outcomes,
	}
}
