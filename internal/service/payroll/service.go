package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
	"github.com/shopspring/decimal"
)

const (
	OperationPayAll  = "payroll.pay_all"
	OperationVoidAll = "payroll.void_all"

	auditDomain = "payroll"
)

type PayrollServiceImpl struct {
	gateway     payroll.Gateway
	recorder    payroll.BatchRecorder
	rate        decimal.Decimal
	concurrency int
}

// NewPayrollService builds the nómina service. recorder may be nil.
func NewPayrollService(
	gateway payroll.Gateway,
	recorder payroll.BatchRecorder,
	rate decimal.Decimal,
	concurrency int,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		gateway:     gateway,
		recorder:    recorder,
		rate:        rate,
		concurrency: concurrency,
	}
}

// ========== LISTS ==========

func (s *PayrollServiceImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]payroll.RecordResponse, error) {
	records, err := s.gateway.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records of employee %d: %w", employeeID, err)
	}
	return payroll.ToRecordResponses(records), nil
}

func (s *PayrollServiceImpl) ListByPeriod(ctx context.Context, period time.Time) ([]payroll.RecordResponse, error) {
	records, err := s.listPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return payroll.ToRecordResponses(records), nil
}

func (s *PayrollServiceImpl) listPeriod(ctx context.Context, period time.Time) ([]payroll.Record, error) {
	if period.IsZero() {
		return nil, payroll.ErrInvalidPeriod
	}
	period = payroll.QuincenaStart(period)

	records, err := s.gateway.ListByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll period %s: %w", period.Format(payroll.DateLayout), err)
	}
	return records, nil
}

// ========== BREAKDOWN ==========

func (s *PayrollServiceImpl) GetBreakdown(ctx context.Context, id int64) (payroll.BreakdownResponse, error) {
	record, err := s.gateway.Get(ctx, id)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}
	return Breakdown(record, s.rate)
}

// ========== TRANSITIONS ==========

func (s *PayrollServiceImpl) Pay(ctx context.Context, id int64, req payroll.PayRequest) (payroll.RecordResponse, error) {
	paymentDate, err := req.Validate()
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	current, err := s.gateway.Get(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	switch current.Status {
	case payroll.StatusVoided:
		return payroll.RecordResponse{}, payroll.ErrRecordVoided
	case payroll.StatusPaid:
		return payroll.RecordResponse{}, payroll.ErrRecordNotPending
	}

	updated, err := s.gateway.Pay(ctx, id, paymentDate)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("failed to pay payroll record %d: %w", id, err)
	}
	return payroll.ToRecordResponse(updated), nil
}

func (s *PayrollServiceImpl) Void(ctx context.Context, id int64) (payroll.RecordResponse, error) {
	current, err := s.gateway.Get(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if current.Status == payroll.StatusVoided {
		return payroll.RecordResponse{}, payroll.ErrRecordVoided
	}

	updated, err := s.gateway.Void(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, fmt.Errorf("failed to void payroll record %d: %w", id, err)
	}
	return payroll.ToRecordResponse(updated), nil
}

// ========== BULK ==========

func (s *PayrollServiceImpl) PayAllPending(ctx context.Context, period time.Time, req payroll.BulkPayRequest) (payroll.BatchResponse, error) {
	paymentDate, err := req.Validate()
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	records, err := s.listPeriod(ctx, period)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	result := s.runBulk(ctx, OperationPayAll, records, req.RecordIDs, func(ctx context.Context, id int64) error {
		_, err := s.gateway.Pay(ctx, id, paymentDate)
		return err
	})
	return payroll.ToBatchResponse(result), nil
}

func (s *PayrollServiceImpl) VoidAllPending(ctx context.Context, period time.Time, req payroll.BulkVoidRequest) (payroll.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResponse{}, err
	}

	records, err := s.listPeriod(ctx, period)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	result := s.runBulk(ctx, OperationVoidAll, records, req.RecordIDs, func(ctx context.Context, id int64) error {
		_, err := s.gateway.Void(ctx, id)
		return err
	})
	return payroll.ToBatchResponse(result), nil
}

func (s *PayrollServiceImpl) runBulk(ctx context.Context, operation string, records []payroll.Record, ids []int64, send func(context.Context, int64) error) batch.Result {
	// Once started, a batch runs to completion even if the caller goes away.
	// Each upstream call is still bounded by the client timeout.
	ctx = context.WithoutCancel(ctx)

	picked, rejected := payroll.SelectPending(payroll.Disbursements(records), ids, payroll.PayrollIneligible)

	result := batch.Run(ctx, operation, picked, s.concurrency,
		func(d payroll.Disbursement) int64 { return d.ID },
		func(ctx context.Context, d payroll.Disbursement) error { return send(ctx, d.ID) },
	)
	for _, o := range rejected {
		result.Fail(o.ItemID, o.Err)
	}

	slog.Info("Payroll batch finished",
		"batch_id", result.ID.String(),
		"operation", operation,
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordBatch(ctx, auditDomain, result); err != nil {
			slog.Error("Failed to record payroll batch", "batch_id", result.ID.String(), "error", err)
		}
	}
	return result
}

// ========== STATISTICS ==========

func (s *PayrollServiceImpl) EmployeeStats(ctx context.Context, employeeID int64) (payroll.EmployeeStatsResponse, error) {
	records, err := s.gateway.ListByEmployee(ctx, employeeID)
	if err != nil {
		return payroll.EmployeeStatsResponse{}, fmt.Errorf("failed to list payroll records of employee %d: %w", employeeID, err)
	}
	disbursements := payroll.Disbursements(records)

	stats := payroll.EmployeeStatsResponse{
		EmployeeID:   employeeID,
		RecordCount:  len(records),
		TotalPaid:    payroll.TotalPaid(disbursements),
		PendingCount: payroll.PendingCount(disbursements),
	}

	if latest, ok := payroll.MostRecentPayment(disbursements); ok {
		for _, r := range records {
			if r.ID == latest.ID {
				resp := payroll.ToRecordResponse(r)
				stats.MostRecentPayment = &resp
				break
			}
		}
	}

	return stats, nil
}

func (s *PayrollServiceImpl) PeriodSummary(ctx context.Context, period time.Time) (payroll.PeriodSummaryResponse, error) {
	records, err := s.listPeriod(ctx, period)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}
	disbursements := payroll.Disbursements(records)
	counts := payroll.CountByStatus(disbursements)

	return payroll.PeriodSummaryResponse{
		Period:       payroll.QuincenaStart(period).Format(payroll.DateLayout),
		RecordCount:  len(records),
		PendingCount: counts[payroll.StatusPending],
		PaidCount:    counts[payroll.StatusPaid],
		VoidedCount:  counts[payroll.StatusVoided],
		TotalNet:     payroll.TotalAcrossPeriod(disbursements),
		TotalPaid:    payroll.TotalPaid(disbursements),
		TotalPending: payroll.TotalAcrossPeriod(disbursements, payroll.StatusPending),
	}, nil
}
