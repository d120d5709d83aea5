package attendance

import "context"

// Gateway is the attendance side of the upstream HR API.
type Gateway interface {
	// FetchToday returns today's status. ErrStatusNotFound when the employee
	// has no record yet.
	FetchToday(ctx context.Context, employeeID int64) (DailyStatus, error)

	// Punch submits one punch. The server infers clock-in vs clock-out.
	Punch(ctx context.Context, employeeID int64) (DailyStatus, error)
}

// EventStatusChanged is the stream event carrying a newly confirmed status.
const EventStatusChanged = "attendance.status"
