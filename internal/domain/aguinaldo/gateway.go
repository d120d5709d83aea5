package aguinaldo

import (
	"context"
	"time"
)

// Gateway is the aguinaldo side of the upstream HR API.
type Gateway interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]BonusRecord, error)
	ListByYear(ctx context.Context, year int) ([]BonusRecord, error)
	Get(ctx context.Context, id int64) (BonusRecord, error)
	Pay(ctx context.Context, id int64, paymentDate time.Time) (BonusRecord, error)
	Void(ctx context.Context, id int64) (BonusRecord, error)
}
