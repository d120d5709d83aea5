package payroll

import (
	"context"
	"time"
)

// PayrollService serves the nómina screens.
type PayrollService interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]RecordResponse, error)
	ListByPeriod(ctx context.Context, period time.Time) ([]RecordResponse, error)

	// GetBreakdown reconstructs the deduction split of one record for display.
	GetBreakdown(ctx context.Context, id int64) (BreakdownResponse, error)

	Pay(ctx context.Context, id int64, req PayRequest) (RecordResponse, error)
	Void(ctx context.Context, id int64) (RecordResponse, error)

	// PayAllPending and VoidAllPending attempt every pending record of the
	// period and report per-record outcomes.
	PayAllPending(ctx context.Context, period time.Time, req BulkPayRequest) (BatchResponse, error)
	VoidAllPending(ctx context.Context, period time.Time, req BulkVoidRequest) (BatchResponse, error)

	EmployeeStats(ctx context.Context, employeeID int64) (EmployeeStatsResponse, error)
	PeriodSummary(ctx context.Context, period time.Time) (PeriodSummaryResponse, error)
}
