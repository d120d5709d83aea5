package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a disbursement. Aguinaldo statuses are mapped onto the same set.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusVoided  Status = "VOIDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusVoided:
		return true
	}
	return false
}

// Record is one biweekly payroll disbursement (nómina) for one employee.
// All amounts are computed by the server.
type Record struct {
	ID              int64
	EmployeeID      int64
	Period          time.Time
	BaseSalary      decimal.Decimal
	OvertimeHours   *decimal.Decimal
	OvertimeAmount  *decimal.Decimal
	Bonuses         *decimal.Decimal
	GrossTotal      decimal.Decimal
	DeductionsTotal decimal.Decimal
	NetTotal        decimal.Decimal
	PaymentDate     *time.Time
	Status          Status

	// Joined fields
	EmployeeName *string
}

// Validate checks the invariants of a record received from the server.
func (r Record) Validate() error {
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	if r.BaseSalary.IsNegative() || r.DeductionsTotal.IsNegative() ||
		isNegative(r.OvertimeHours) || isNegative(r.OvertimeAmount) || isNegative(r.Bonuses) {
		return ErrNegativeAmount
	}
	if !r.NetTotal.Equal(r.GrossTotal.Sub(r.DeductionsTotal)) {
		return ErrNetTotalMismatch
	}
	if r.Status == StatusPaid && r.PaymentDate == nil {
		return ErrPaidWithoutDate
	}
	return nil
}

func (r Record) Disbursement() Disbursement {
	return Disbursement{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		NetAmount:   r.NetTotal,
		Status:      r.Status,
		PaymentDate: r.PaymentDate,
	}
}

func isNegative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}

// QuincenaStart returns the quincena a date belongs to: the 1st or the 16th of its month.
func QuincenaStart(t time.Time) time.Time {
	day := 1
	if t.Day() > 15 {
		day = 16
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, time.UTC)
}
