package aguinaldo

import (
	"errors"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
)

var (
	ErrBonusRecordNotFound = errors.New("aguinaldo record not found")
	ErrRecordVoided        = errors.New("aguinaldo record is voided and can no longer change")
	ErrRecordNotPending    = errors.New("aguinaldo record is not pending")
	ErrInvalidStatus       = errors.New("invalid aguinaldo status")
	ErrInvalidDaysWorked   = errors.New("days worked must be between 0 and 365")
	ErrNegativeAmount      = errors.New("aguinaldo amounts must be non-negative")
	ErrPaidWithoutDate     = errors.New("paid aguinaldo record has no payment date")
	ErrInvalidYear         = errors.New("invalid aguinaldo year")
)

// Ineligible is reported for records a bulk payment refuses to send.
var Ineligible = payroll.IneligibleErrors{
	NotFound:   ErrBonusRecordNotFound,
	Voided:     ErrRecordVoided,
	NotPending: ErrRecordNotPending,
}
