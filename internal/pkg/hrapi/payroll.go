package hrapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type payrollRecordPayload struct {
	ID              int64            `json:"id"`
	EmployeeID      int64            `json:"employee_id"`
	EmployeeName    *string          `json:"employee_name,omitempty"`
	Period          string           `json:"period"`
	BaseSalary      decimal.Decimal  `json:"base_salary"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeAmount  *decimal.Decimal `json:"overtime_amount,omitempty"`
	Bonuses         *decimal.Decimal `json:"bonuses,omitempty"`
	GrossTotal      decimal.Decimal  `json:"gross_total"`
	DeductionsTotal decimal.Decimal  `json:"deductions_total"`
	NetTotal        decimal.Decimal  `json:"net_total"`
	PaymentDate     *string          `json:"payment_date,omitempty"`
	Status          payroll.Status   `json:"status"`
}

type paymentBody struct {
	PaymentDate string `json:"payment_date"`
}

type payrollGateway struct {
	client *Client
}

func NewPayrollGateway(client *Client) payroll.Gateway {
	return &payrollGateway{client: client}
}

func (g *payrollGateway) ListByEmployee(ctx context.Context, employeeID int64) ([]payroll.Record, error) {
	query := url.Values{"employee_id": {strconv.FormatInt(employeeID, 10)}}
	return g.list(ctx, query)
}

func (g *payrollGateway) ListByPeriod(ctx context.Context, period time.Time) ([]payroll.Record, error) {
	query := url.Values{"period": {period.Format(payroll.DateLayout)}}
	return g.list(ctx, query)
}

func (g *payrollGateway) list(ctx context.Context, query url.Values) ([]payroll.Record, error) {
	var payloads []payrollRecordPayload
	if err := g.client.do(ctx, http.MethodGet, "/payroll", query, nil, &payloads); err != nil {
		return nil, err
	}

	records := make([]payroll.Record, 0, len(payloads))
	for _, p := range payloads {
		r, err := toPayrollRecord(p)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (g *payrollGateway) Get(ctx context.Context, id int64) (payroll.Record, error) {
	return g.call(ctx, http.MethodGet, fmt.Sprintf("/payroll/%d", id), nil)
}

func (g *payrollGateway) Pay(ctx context.Context, id int64, paymentDate time.Time) (payroll.Record, error) {
	body := paymentBody{PaymentDate: paymentDate.Format(payroll.DateLayout)}
	return g.call(ctx, http.MethodPost, fmt.Sprintf("/payroll/%d/pay", id), body)
}

func (g *payrollGateway) Void(ctx context.Context, id int64) (payroll.Record, error) {
	return g.call(ctx, http.MethodPost, fmt.Sprintf("/payroll/%d/void", id), nil)
}

func (g *payrollGateway) call(ctx context.Context, method, path string, body interface{}) (payroll.Record, error) {
	var p payrollRecordPayload
	if err := g.client.do(ctx, method, path, nil, body, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return payroll.Record{}, fmt.Errorf("%w: %w", payroll.ErrPayrollRecordNotFound, err)
		}
		return payroll.Record{}, err
	}
	return toPayrollRecord(p)
}

func toPayrollRecord(p payrollRecordPayload) (payroll.Record, error) {
	period, ok := validator.ParseDateOrDateTime(p.Period)
	if !ok {
		return payroll.Record{}, fmt.Errorf("payroll record %d: %w: %q", p.ID, payroll.ErrInvalidPeriod, p.Period)
	}

	paymentDate, err := parseOptionalDate(p.PaymentDate)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("payroll record %d: %w", p.ID, err)
	}

	r := payroll.Record{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.EmployeeName,
		Period:          period,
		BaseSalary:      p.BaseSalary,
		OvertimeHours:   p.OvertimeHours,
		OvertimeAmount:  p.OvertimeAmount,
		Bonuses:         p.Bonuses,
		GrossTotal:      p.GrossTotal,
		DeductionsTotal: p.DeductionsTotal,
		NetTotal:        p.NetTotal,
		PaymentDate:     paymentDate,
		Status:          p.Status,
	}
	if err := r.Validate(); err != nil {
		return payroll.Record{}, fmt.Errorf("payroll record %d: %w", p.ID, err)
	}
	return r, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, ok := validator.ParseDateOrDateTime(*s)
	if !ok {
		return nil, fmt.Errorf("invalid date %q", *s)
	}
	return &t, nil
}
