package payroll

import "errors"

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrRecordVoided          = errors.New("payroll record is voided and can no longer change")
	ErrRecordNotPending      = errors.New("payroll record is not pending")
	ErrInvalidStatus         = errors.New("invalid payroll status")
	ErrNegativeAmount        = errors.New("payroll amounts must be non-negative")
	ErrNetTotalMismatch      = errors.New("net total does not equal gross total minus deductions")
	ErrPaidWithoutDate       = errors.New("paid payroll record has no payment date")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrInvalidRate           = errors.New("social security rate must be between 0 and 1")
)
