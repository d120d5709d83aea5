package hrapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/aguinaldo"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type bonusRecordPayload struct {
	ID                   int64            `json:"id"`
	EmployeeID           int64            `json:"employee_id"`
	EmployeeName         *string          `json:"employee_name,omitempty"`
	CalculationDate      string           `json:"calculation_date"`
	DaysWorked           int              `json:"days_worked"`
	AverageMonthlySalary decimal.Decimal  `json:"average_monthly_salary"`
	BonusAmount          decimal.Decimal  `json:"bonus_amount"`
	PaymentDate          *string          `json:"payment_date,omitempty"`
	Status               aguinaldo.Status `json:"status"`
}

type aguinaldoGateway struct {
	client *Client
}

func NewAguinaldoGateway(client *Client) aguinaldo.Gateway {
	return &aguinaldoGateway{client: client}
}

func (g *aguinaldoGateway) ListByEmployee(ctx context.Context, employeeID int64) ([]aguinaldo.BonusRecord, error) {
	return g.list(ctx, url.Values{"employee_id": {strconv.FormatInt(employeeID, 10)}})
}

func (g *aguinaldoGateway) ListByYear(ctx context.Context, year int) ([]aguinaldo.BonusRecord, error) {
	return g.list(ctx, url.Values{"year": {strconv.Itoa(year)}})
}

func (g *aguinaldoGateway) list(ctx context.Context, query url.Values) ([]aguinaldo.BonusRecord, error) {
	var payloads []bonusRecordPayload
	if err := g.client.do(ctx, http.MethodGet, "/aguinaldo", query, nil, &payloads); err != nil {
		return nil, err
	}

	records := make([]aguinaldo.BonusRecord, 0, len(payloads))
	for _, p := range payloads {
		r, err := toBonusRecord(p)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (g *aguinaldoGateway) Get(ctx context.Context, id int64) (aguinaldo.BonusRecord, error) {
	return g.call(ctx, http.MethodGet, fmt.Sprintf("/aguinaldo/%d", id), nil)
}

func (g *aguinaldoGateway) Pay(ctx context.Context, id int64, paymentDate time.Time) (aguinaldo.BonusRecord, error) {
	body := paymentBody{PaymentDate: paymentDate.Format(payroll.DateLayout)}
	return g.call(ctx, http.MethodPost, fmt.Sprintf("/aguinaldo/%d/pay", id), body)
}

func (g *aguinaldoGateway) Void(ctx context.Context, id int64) (aguinaldo.BonusRecord, error) {
	return g.call(ctx, http.MethodPost, fmt.Sprintf("/aguinaldo/%d/void", id), nil)
}

func (g *aguinaldoGateway) call(ctx context.Context, method, path string, body interface{}) (aguinaldo.BonusRecord, error) {
	var p bonusRecordPayload
	if err := g.client.do(ctx, method, path, nil, body, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return aguinaldo.BonusRecord{}, fmt.Errorf("%w: %w", aguinaldo.ErrBonusRecordNotFound, err)
		}
		return aguinaldo.BonusRecord{}, err
	}
	return toBonusRecord(p)
}

func toBonusRecord(p bonusRecordPayload) (aguinaldo.BonusRecord, error) {
	calculated, ok := validator.ParseDateOrDateTime(p.CalculationDate)
	if !ok {
		return aguinaldo.BonusRecord{}, fmt.Errorf("aguinaldo record %d: invalid calculation date %q", p.ID, p.CalculationDate)
	}

	paymentDate, err := parseOptionalDate(p.PaymentDate)
	if err != nil {
		return aguinaldo.BonusRecord{}, fmt.Errorf("aguinaldo record %d: %w", p.ID, err)
	}

	b := aguinaldo.BonusRecord{
		ID:                   p.ID,
		EmployeeID:           p.EmployeeID,
		EmployeeName:         p.EmployeeName,
		CalculationDate:      calculated,
		DaysWorked:           p.DaysWorked,
		AverageMonthlySalary: p.AverageMonthlySalary,
		BonusAmount:          p.BonusAmount,
		PaymentDate:          paymentDate,
		Status:               p.Status,
	}
	if err := b.Validate(); err != nil {
		return aguinaldo.BonusRecord{}, fmt.Errorf("aguinaldo record %d: %w", p.ID, err)
	}
	return b, nil
}
