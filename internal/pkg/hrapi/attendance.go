package hrapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/attendance"
)

type attendanceStatusPayload struct {
	EmployeeID   int64   `json:"employee_id"`
	ClockInTime  *string `json:"clock_in_time"`
	ClockOutTime *string `json:"clock_out_time"`
	ServerTime   string  `json:"server_time"`
}

type attendanceGateway struct {
	client *Client
}

func NewAttendanceGateway(client *Client) attendance.Gateway {
	return &attendanceGateway{client: client}
}

func (g *attendanceGateway) FetchToday(ctx context.Context, employeeID int64) (attendance.DailyStatus, error) {
	var payload attendanceStatusPayload
	path := fmt.Sprintf("/attendance/%d/today", employeeID)
	if err := g.client.do(ctx, http.MethodGet, path, nil, nil, &payload); err != nil {
		if errors.Is(err, ErrNotFound) {
			return attendance.DailyStatus{}, fmt.Errorf("%w: %w", attendance.ErrStatusNotFound, err)
		}
		return attendance.DailyStatus{}, err
	}
	return toDailyStatus(employeeID, payload)
}

func (g *attendanceGateway) Punch(ctx context.Context, employeeID int64) (attendance.DailyStatus, error) {
	var payload attendanceStatusPayload
	path := fmt.Sprintf("/attendance/%d/punch", employeeID)
	if err := g.client.do(ctx, http.MethodPost, path, nil, nil, &payload); err != nil {
		return attendance.DailyStatus{}, err
	}
	return toDailyStatus(employeeID, payload)
}

func toDailyStatus(employeeID int64, p attendanceStatusPayload) (attendance.DailyStatus, error) {
	if p.EmployeeID != 0 {
		employeeID = p.EmployeeID
	}
	status, err := attendance.NewDailyStatus(employeeID, p.ClockInTime, p.ClockOutTime, p.ServerTime)
	if err != nil {
		return attendance.DailyStatus{}, fmt.Errorf("invalid attendance status from server: %w", err)
	}
	return status, nil
}
