package aguinaldo

import (
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPendiente Status = "PENDIENTE"
	StatusPagado    Status = "PAGADO"
	StatusAnulado   Status = "ANULADO"
)

// Disbursement maps the Spanish statuses onto the shared payroll set.
func (s Status) Disbursement() payroll.Status {
	switch s {
	case StatusPendiente:
		return payroll.StatusPending
	case StatusPagado:
		return payroll.StatusPaid
	case StatusAnulado:
		return payroll.StatusVoided
	default:
		return ""
	}
}

func (s Status) IsValid() bool {
	return s.Disbursement() != ""
}

// BonusRecord is one yearly aguinaldo. BonusAmount is computed server-side
// as AverageMonthlySalary × DaysWorked / 365.
type BonusRecord struct {
	ID                   int64
	EmployeeID           int64
	CalculationDate      time.Time
	DaysWorked           int
	AverageMonthlySalary decimal.Decimal
	BonusAmount          decimal.Decimal
	PaymentDate          *time.Time
	Status               Status

	// Joined fields
	EmployeeName *string
}

func (b BonusRecord) Validate() error {
	if !b.Status.IsValid() {
		return ErrInvalidStatus
	}
	if b.DaysWorked < 0 || b.DaysWorked > MaxDaysWorked {
		return ErrInvalidDaysWorked
	}
	if b.AverageMonthlySalary.IsNegative() || b.BonusAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if b.Status == StatusPagado && b.PaymentDate == nil {
		return ErrPaidWithoutDate
	}
	return nil
}

func (b BonusRecord) Disbursement() payroll.Disbursement {
	return payroll.Disbursement{
		ID:          b.ID,
		EmployeeID:  b.EmployeeID,
		NetAmount:   b.BonusAmount,
		Status:      b.Status.Disbursement(),
		PaymentDate: b.PaymentDate,
	}
}

const (
	MaxDaysWorked = 365

	// Legal payment deadline, December 20.
	deadlineMonth = time.December
	deadlineDay   = 20
)

// LegalDeadline is the last lawful payment day in the given year.
func LegalDeadline(year int) time.Time {
	return time.Date(year, deadlineMonth, deadlineDay, 0, 0, 0, 0, time.UTC)
}

// IsLate reports whether paymentDate falls after December 20 of its own
// year. Only the calendar date is compared.
func IsLate(paymentDate time.Time) bool {
	day := time.Date(paymentDate.Year(), paymentDate.Month(), paymentDate.Day(), 0, 0, 0, 0, time.UTC)
	return day.After(LegalDeadline(paymentDate.Year()))
}
