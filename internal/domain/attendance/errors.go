package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrDayComplete   = errors.New("attendance for today is already complete")
	ErrPunchInFlight = errors.New("a punch for this employee is already being submitted")

	// General errors
	ErrStatusNotFound     = errors.New("attendance status not found")
	ErrInconsistentStatus = errors.New("attendance status has a clock-out time without a clock-in time")
	ErrInvalidEmployeeID  = errors.New("invalid employee id")
)
