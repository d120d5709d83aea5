package aguinaldo

import (
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type BonusRecordResponse struct {
	ID                   int64           `json:"id"`
	EmployeeID           int64           `json:"employee_id"`
	EmployeeName         *string         `json:"employee_name,omitempty"`
	CalculationDate      string          `json:"calculation_date"`
	DaysWorked           int             `json:"days_worked"`
	AverageMonthlySalary decimal.Decimal `json:"average_monthly_salary"`
	BonusAmount          decimal.Decimal `json:"bonus_amount"`
	PaymentDate          *string         `json:"payment_date,omitempty"`
	Status               Status          `json:"status"`
	LatePayment          bool            `json:"late_payment"`
}

func ToRecordResponse(b BonusRecord) BonusRecordResponse {
	var paymentDate *string
	late := false
	if b.PaymentDate != nil {
		str := b.PaymentDate.Format(payroll.DateLayout)
		paymentDate = &str
		late = IsLate(*b.PaymentDate)
	}

	return BonusRecordResponse{
		ID:                   b.ID,
		EmployeeID:           b.EmployeeID,
		EmployeeName:         b.EmployeeName,
		CalculationDate:      b.CalculationDate.Format(payroll.DateLayout),
		DaysWorked:           b.DaysWorked,
		AverageMonthlySalary: b.AverageMonthlySalary,
		BonusAmount:          b.BonusAmount,
		PaymentDate:          paymentDate,
		Status:               b.Status,
		LatePayment:          late,
	}
}

func ToRecordResponses(records []BonusRecord) []BonusRecordResponse {
	result := make([]BonusRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, ToRecordResponse(r))
	}
	return result
}

type EmployeeStatsResponse struct {
	EmployeeID        int64                `json:"employee_id"`
	RecordCount       int                  `json:"record_count"`
	TotalPaid         decimal.Decimal      `json:"total_paid"`
	PendingCount      int                  `json:"pending_count"`
	MostRecentPayment *BonusRecordResponse `json:"most_recent_payment,omitempty"`
}

type YearSummaryResponse struct {
	Year         int             `json:"year"`
	RecordCount  int             `json:"record_count"`
	PendingCount int             `json:"pending_count"`
	PaidCount    int             `json:"paid_count"`
	VoidedCount  int             `json:"voided_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

// LateCheckResponse backs the warning shown before confirming a payment.
type LateCheckResponse struct {
	PaymentDate   string `json:"payment_date"`
	LegalDeadline string `json:"legal_deadline"`
	IsLate        bool   `json:"is_late"`
}

func NewLateCheck(paymentDate time.Time) LateCheckResponse {
	return LateCheckResponse{
		PaymentDate:   paymentDate.Format(payroll.DateLayout),
		LegalDeadline: LegalDeadline(paymentDate.Year()).Format(payroll.DateLayout),
		IsLate:        IsLate(paymentDate),
	}
}

// PayResponse carries the updated record and the late-payment flag of the
// chosen date.
type PayResponse struct {
	Record      BonusRecordResponse `json:"record"`
	LatePayment bool                `json:"late_payment"`
}

type BulkPayResponse struct {
	payroll.BatchResponse
	LatePayment bool `json:"late_payment"`
}
