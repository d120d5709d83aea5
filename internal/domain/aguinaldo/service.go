package aguinaldo

import (
	"context"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
)

// AguinaldoService serves the annual bonus screens.
type AguinaldoService interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]BonusRecordResponse, error)
	ListByYear(ctx context.Context, year int) ([]BonusRecordResponse, error)
	Pay(ctx context.Context, id int64, req payroll.PayRequest) (PayResponse, error)
	Void(ctx context.Context, id int64) (BonusRecordResponse, error)
	PayAllPending(ctx context.Context, year int, req payroll.BulkPayRequest) (BulkPayResponse, error)
	VoidAllPending(ctx context.Context, year int, req payroll.BulkVoidRequest) (payroll.BatchResponse, error)
	EmployeeStats(ctx context.Context, employeeID int64) (EmployeeStatsResponse, error)
	YearSummary(ctx context.Context, year int) (YearSummaryResponse, error)
}
