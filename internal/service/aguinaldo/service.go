package aguinaldo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/aguinaldo"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/batch"
)

const (
	OperationPayAll  = "aguinaldo.pay_all"
	OperationVoidAll = "aguinaldo.void_all"

	auditDomain = "aguinaldo"

	minYear = 1950
	maxYear = 2999
)

type AguinaldoServiceImpl struct {
	gateway     aguinaldo.Gateway
	recorder    payroll.BatchRecorder
	concurrency int
}

// NewAguinaldoService builds the aguinaldo service. recorder may be nil.
func NewAguinaldoService(gateway aguinaldo.Gateway, recorder payroll.BatchRecorder, concurrency int) aguinaldo.AguinaldoService {
	return &AguinaldoServiceImpl{
		gateway:     gateway,
		recorder:    recorder,
		concurrency: concurrency,
	}
}

func (s *AguinaldoServiceImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]aguinaldo.BonusRecordResponse, error) {
	records, err := s.gateway.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aguinaldo records of employee %d: %w", employeeID, err)
	}
	return aguinaldo.ToRecordResponses(records), nil
}

func (s *AguinaldoServiceImpl) ListByYear(ctx context.Context, year int) ([]aguinaldo.BonusRecordResponse, error) {
	records, err := s.listYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return aguinaldo.ToRecordResponses(records), nil
}

func (s *AguinaldoServiceImpl) listYear(ctx context.Context, year int) ([]aguinaldo.BonusRecord, error) {
	if year < minYear || year > maxYear {
		return nil, aguinaldo.ErrInvalidYear
	}
	records, err := s.gateway.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list aguinaldo year %d: %w", year, err)
	}
	return records, nil
}

// Pay marks one aguinaldo as paid. A date after December 20 is accepted and
// flagged in the response.
func (s *AguinaldoServiceImpl) Pay(ctx context.Context, id int64, req payroll.PayRequest) (aguinaldo.PayResponse, error) {
	paymentDate, err := req.Validate()
	if err != nil {
		return aguinaldo.PayResponse{}, err
	}

	current, err := s.gateway.Get(ctx, id)
	if err != nil {
		return aguinaldo.PayResponse{}, err
	}
	switch current.Status {
	case aguinaldo.StatusAnulado:
		return aguinaldo.PayResponse{}, aguinaldo.ErrRecordVoided
	case aguinaldo.StatusPagado:
		return aguinaldo.PayResponse{}, aguinaldo.ErrRecordNotPending
	}

	late := aguinaldo.IsLate(paymentDate)
	if late {
		slog.Warn("Aguinaldo paid after legal deadline",
			"record_id", id,
			"payment_date", paymentDate.Format(payroll.DateLayout),
		)
	}

	updated, err := s.gateway.Pay(ctx, id, paymentDate)
	if err != nil {
		return aguinaldo.PayResponse{}, fmt.Errorf("failed to pay aguinaldo record %d: %w", id, err)
	}

	return aguinaldo.PayResponse{
		Record:      aguinaldo.ToRecordResponse(updated),
		LatePayment: late,
	}, nil
}

func (s *AguinaldoServiceImpl) Void(ctx context.Context, id int64) (aguinaldo.BonusRecordResponse, error) {
	current, err := s.gateway.Get(ctx, id)
	if err != nil {
		return aguinaldo.BonusRecordResponse{}, err
	}
	if current.Status == aguinaldo.StatusAnulado {
		return aguinaldo.BonusRecordResponse{}, aguinaldo.ErrRecordVoided
	}

	updated, err := s.gateway.Void(ctx, id)
	if err != nil {
		return aguinaldo.BonusRecordResponse{}, fmt.Errorf("failed to void aguinaldo record %d: %w", id, err)
	}
	return aguinaldo.ToRecordResponse(updated), nil
}

func (s *AguinaldoServiceImpl) PayAllPending(ctx context.Context, year int, req payroll.BulkPayRequest) (aguinaldo.BulkPayResponse, error) {
	paymentDate, err := req.Validate()
	if err != nil {
		return aguinaldo.BulkPayResponse{}, err
	}

	result, err := s.runBulk(ctx, OperationPayAll, year, req.RecordIDs, func(ctx context.Context, id int64) error {
		_, err := s.gateway.Pay(ctx, id, paymentDate)
		return err
	})
	if err != nil {
		return aguinaldo.BulkPayResponse{}, err
	}

	return aguinaldo.BulkPayResponse{
		BatchResponse: result,
		LatePayment:   aguinaldo.IsLate(paymentDate),
	}, nil
}

func (s *AguinaldoServiceImpl) VoidAllPending(ctx context.Context, year int, req payroll.BulkVoidRequest) (payroll.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResponse{}, err
	}

	return s.runBulk(ctx, OperationVoidAll, year, req.RecordIDs, func(ctx context.Context, id int64) error {
		_, err := s.gateway.Void(ctx, id)
		return err
	})
}

func (s *AguinaldoServiceImpl) runBulk(ctx context.Context, operation string, year int, ids []int64, apply func(context.Context, int64) error) (payroll.BatchResponse, error) {
	records, err := s.listYear(ctx, year)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	// Once started, a batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	picked, rejected := payroll.SelectPending(payroll.Disbursements(records), ids, aguinaldo.Ineligible)

	result := batch.Run(ctx, operation, picked, s.concurrency,
		func(d payroll.Disbursement) int64 { return d.ID },
		func(ctx context.Context, d payroll.Disbursement) error {
			return apply(ctx, d.ID)
		},
	)
	for _, o := range rejected {
		result.Fail(o.ItemID, o.Err)
	}

	slog.Info("Aguinaldo batch finished",
		"batch_id", result.ID.String(),
		"operation", operation,
		"year", year,
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordBatch(ctx, auditDomain, result); err != nil {
			slog.Error("Failed to record aguinaldo batch", "batch_id", result.ID.String(), "error", err)
		}
	}

	return payroll.ToBatchResponse(result), nil
}

func (s *AguinaldoServiceImpl) EmployeeStats(ctx context.Context, employeeID int64) (aguinaldo.EmployeeStatsResponse, error) {
	records, err := s.gateway.ListByEmployee(ctx, employeeID)
	if err != nil {
		return aguinaldo.EmployeeStatsResponse{}, fmt.Errorf("failed to list aguinaldo records of employee %d: %w", employeeID, err)
	}
	disbursements := payroll.Disbursements(records)

	stats := aguinaldo.EmployeeStatsResponse{
		EmployeeID:   employeeID,
		RecordCount:  len(records),
		TotalPaid:    payroll.TotalPaid(disbursements),
		PendingCount: payroll.PendingCount(disbursements),
	}
	if latest, ok := payroll.MostRecentPayment(disbursements); ok {
		for _, r := range records {
			if r.ID == latest.ID {
				resp := aguinaldo.ToRecordResponse(r)
				stats.MostRecentPayment = &resp
				break
			}
		}
	}
	return stats, nil
}

func (s *AguinaldoServiceImpl) YearSummary(ctx context.Context, year int) (aguinaldo.YearSummaryResponse, error) {
	records, err := s.listYear(ctx, year)
	if err != nil {
		return aguinaldo.YearSummaryResponse{}, err
	}
	disbursements := payroll.Disbursements(records)
	counts := payroll.CountByStatus(disbursements)

	return aguinaldo.YearSummaryResponse{
		Year:         year,
		RecordCount:  len(records),
		PendingCount: counts[payroll.StatusPending],
		PaidCount:    counts[payroll.StatusPaid],
		VoidedCount:  counts[payroll.StatusVoided],
		TotalAmount:  payroll.TotalAcrossPeriod(disbursements),
		TotalPaid:    payroll.TotalPaid(disbursements),
		TotalPending: payroll.TotalAcrossPeriod(disbursements, payroll.StatusPending),
	}, nil
}
