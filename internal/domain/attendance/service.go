package attendance

import (
	"context"
)

// PunchClockService drives the single punch button of the attendance widget.
type PunchClockService interface {
	// LoadStatus fetches today's status from the server and records it as the
	// last confirmed state.
	LoadStatus(ctx context.Context, employeeID int64) (StatusResponse, error)

	// SubmitPunch sends the punch implied by the last confirmed state. It does
	// not touch the network when the day is complete or a punch is in flight.
	SubmitPunch(ctx context.Context, employeeID int64) (StatusResponse, error)

	// Snapshot returns the last confirmed status without a network call.
	Snapshot(employeeID int64) (StatusResponse, bool)
}
