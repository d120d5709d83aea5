package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
)

// Gateway is the payroll side of the upstream HR API. Every method returns
// the server's view of the record after the call.
type Gateway interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]Record, error)
	ListByPeriod(ctx context.Context, period time.Time) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)
	Pay(ctx context.Context, id int64, paymentDate time.Time) (Record, error)
	Void(ctx context.Context, id int64) (Record, error)
}

// BatchRecorder keeps an audit trail of bulk operations.
type BatchRecorder interface {
	RecordBatch(ctx context.Context, domain string, result batch.Result) error
}
