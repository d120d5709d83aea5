package aguinaldo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/aguinaldo"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	records  []aguinaldo.BonusRecord
	failures map[int64]error
	payCalls int

	// beforeVoid runs ahead of every void call, outside the lock.
	beforeVoid func(id int64)
}

func (g *fakeGateway) ListByEmployee(ctx context.Context, employeeID int64) ([]aguinaldo.BonusRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []aguinaldo.BonusRecord
	for _, r := range g.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListByYear(ctx context.Context, year int) ([]aguinaldo.BonusRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []aguinaldo.BonusRecord
	for _, r := range g.records {
		if r.CalculationDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *fakeGateway) Get(ctx context.Context, id int64) (aguinaldo.BonusRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.records {
		if r.ID == id {
			return r, nil
		}
	}
	return aguinaldo.BonusRecord{}, aguinaldo.ErrBonusRecordNotFound
}

func (g *fakeGateway) Pay(ctx context.Context, id int64, paymentDate time.Time) (aguinaldo.BonusRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payCalls++
	if err := g.failures[id]; err != nil {
		return aguinaldo.BonusRecord{}, err
	}
	for i, r := range g.records {
		if r.ID == id {
			r.Status = aguinaldo.StatusPagado
			r.PaymentDate = &paymentDate
			g.records[i] = r
			return r, nil
		}
	}
	return aguinaldo.BonusRecord{}, aguinaldo.ErrBonusRecordNotFound
}

func (g *fakeGateway) Void(ctx context.Context, id int64) (aguinaldo.BonusRecord, error) {
	if g.beforeVoid != nil {
		g.beforeVoid(id)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return aguinaldo.BonusRecord{}, err
	}
	for i, r := range g.records {
		if r.ID == id {
			r.Status = aguinaldo.StatusAnulado
			g.records[i] = r
			return r, nil
		}
	}
	return aguinaldo.BonusRecord{}, aguinaldo.ErrBonusRecordNotFound
}

type fakeRecorder struct {
	domains []string
}

func (r *fakeRecorder) RecordBatch(ctx context.Context, domain string, result batch.Result) error {
	r.domains = append(r.domains, domain)
	return nil
}

func bonus(id, employeeID int64, amount string, status aguinaldo.Status, paid *time.Time) aguinaldo.BonusRecord {
	return aguinaldo.BonusRecord{
		ID:                   id,
		EmployeeID:           employeeID,
		CalculationDate:      time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		DaysWorked:           365,
		AverageMonthlySalary: decimal.RequireFromString(amount),
		BonusAmount:          decimal.RequireFromString(amount),
		Status:               status,
		PaymentDate:          paid,
	}
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestPay_FlagsLatePayment(t *testing.T) {
	gateway := &fakeGateway{records: []aguinaldo.BonusRecord{
		bonus(1, 10, "500000", aguinaldo.StatusPendiente, nil),
		bonus(2, 11, "500000", aguinaldo.StatusPendiente, nil),
	}}
	svc := NewAguinaldoService(gateway, nil, 2)

	onTime, err := svc.Pay(context.Background(), 1, payroll.PayRequest{PaymentDate: "2026-12-20"})
	require.NoError(t, err)
	assert.False(t, onTime.LatePayment)
	assert.Equal(t, aguinaldo.StatusPagado, onTime.Record.Status)

	late, err := svc.Pay(context.Background(), 2, payroll.PayRequest{PaymentDate: "2026-12-21"})
	require.NoError(t, err)
	assert.True(t, late.LatePayment)
	assert.True(t, late.Record.LatePayment)
}

func TestPay_RefusesVoidedAndPaid(t *testing.T) {
	gateway := &fakeGateway{records: []aguinaldo.BonusRecord{
		bonus(1, 10, "500000", aguinaldo.StatusAnulado, nil),
		bonus(2, 10, "500000", aguinaldo.StatusPagado, date("2026-12-15")),
	}}
	svc := NewAguinaldoService(gateway, nil, 2)

	_, err := svc.Pay(context.Background(), 1, payroll.PayRequest{PaymentDate: "2026-12-15"})
	assert.ErrorIs(t, err, aguinaldo.ErrRecordVoided)

	_, err = svc.Pay(context.Background(), 2, payroll.PayRequest{PaymentDate: "2026-12-15"})
	assert.ErrorIs(t, err, aguinaldo.ErrRecordNotPending)

	_, err = svc.Void(context.Background(), 1)
	assert.ErrorIs(t, err, aguinaldo.ErrRecordVoided)

	assert.Zero(t, gateway.payCalls)
}

func TestPayAllPending(t *testing.T) {
	gateway := &fakeGateway{
		records: []aguinaldo.BonusRecord{
			bonus(1, 10, "100000", aguinaldo.StatusPendiente, nil),
			bonus(2, 11, "200000", aguinaldo.StatusPendiente, nil),
			bonus(3, 12, "300000", aguinaldo.StatusPendiente, nil),
			bonus(4, 13, "400000", aguinaldo.StatusAnulado, nil),
		},
		failures: map[int64]error{2: errors.New("employee 11 has no bank account")},
	}
	recorder := &fakeRecorder{}
	svc := NewAguinaldoService(gateway, recorder, 2)

	resp, err := svc.PayAllPending(context.Background(), 2026, payroll.BulkPayRequest{PaymentDate: "2026-12-18"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, []string{"employee 11 has no bank account"}, resp.Errors)
	assert.False(t, resp.LatePayment)
	assert.Equal(t, 3, gateway.payCalls)
	assert.Equal(t, []string{"aguinaldo"}, recorder.domains)

	assert.Equal(t, aguinaldo.StatusPagado, gateway.records[0].Status)
	assert.Equal(t, aguinaldo.StatusPendiente, gateway.records[1].Status)
	assert.Equal(t, aguinaldo.StatusPagado, gateway.records[2].Status)
}

func TestVoidAllPending_ExplicitIDs(t *testing.T) {
	gateway := &fakeGateway{
		records: []aguinaldo.BonusRecord{
			bonus(1, 10, "100000", aguinaldo.StatusPendiente, nil),
			bonus(2, 11, "200000", aguinaldo.StatusPagado, date("2026-12-15")),
			bonus(3, 12, "300000", aguinaldo.StatusPendiente, nil),
		},
	}
	svc := NewAguinaldoService(gateway, nil, 2)

	resp, err := svc.VoidAllPending(context.Background(), 2026, payroll.BulkVoidRequest{RecordIDs: []int64{1, 2, 99}})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 2, resp.Failed)
	assert.Len(t, resp.Errors, 2)

	assert.Equal(t, aguinaldo.StatusAnulado, gateway.records[0].Status)
	assert.Equal(t, aguinaldo.StatusPagado, gateway.records[1].Status)
	assert.Equal(t, aguinaldo.StatusPendiente, gateway.records[2].Status)
}

func TestVoidAllPending_CallerCancelsMidBatch(t *testing.T) {
	gateway := &fakeGateway{
		records: []aguinaldo.BonusRecord{
			bonus(1, 10, "100000", aguinaldo.StatusPendiente, nil),
			bonus(2, 11, "200000", aguinaldo.StatusPendiente, nil),
			bonus(3, 12, "300000", aguinaldo.StatusPendiente, nil),
		},
	}
	recorder := &fakeRecorder{}
	svc := NewAguinaldoService(gateway, recorder, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gateway.beforeVoid = func(int64) { cancel() }

	resp, err := svc.VoidAllPending(ctx, 2026, payroll.BulkVoidRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Succeeded)
	assert.Zero(t, resp.Failed)
	for _, r := range gateway.records {
		assert.Equal(t, aguinaldo.StatusAnulado, r.Status)
	}
	assert.Equal(t, []string{"aguinaldo"}, recorder.domains)
}

func TestPayAllPending_InvalidYear(t *testing.T) {
	svc := NewAguinaldoService(&fakeGateway{}, nil, 2)

	_, err := svc.PayAllPending(context.Background(), 0, payroll.BulkPayRequest{PaymentDate: "2026-12-18"})
	assert.ErrorIs(t, err, aguinaldo.ErrInvalidYear)
}

func TestEmployeeStats(t *testing.T) {
	gateway := &fakeGateway{records: []aguinaldo.BonusRecord{
		bonus(1, 10, "450000", aguinaldo.StatusPagado, date("2025-12-19")),
		bonus(2, 10, "500000", aguinaldo.StatusPagado, date("2026-12-18")),
		bonus(3, 10, "50000", aguinaldo.StatusPendiente, nil),
	}}
	svc := NewAguinaldoService(gateway, nil, 2)

	stats, err := svc.EmployeeStats(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(950000).Equal(stats.TotalPaid))
	assert.Equal(t, 1, stats.PendingCount)
	require.NotNil(t, stats.MostRecentPayment)
	assert.Equal(t, int64(2), stats.MostRecentPayment.ID)
}

func TestYearSummary(t *testing.T) {
	gateway := &fakeGateway{records: []aguinaldo.BonusRecord{
		bonus(1, 10, "100000", aguinaldo.StatusPagado, date("2026-12-10")),
		bonus(2, 11, "200000", aguinaldo.StatusPendiente, nil),
		bonus(3, 12, "300000", aguinaldo.StatusAnulado, nil),
	}}
	svc := NewAguinaldoService(gateway, nil, 2)

	summary, err := svc.YearSummary(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RecordCount)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.VoidedCount)
	assert.True(t, decimal.NewFromInt(600000).Equal(summary.TotalAmount))
	assert.True(t, decimal.NewFromInt(100000).Equal(summary.TotalPaid))
	assert.True(t, decimal.NewFromInt(200000).Equal(summary.TotalPending))
}
