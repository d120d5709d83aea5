package attendance

// StatusResponse is what the portal renders: the confirmed status and the
// affordance of the punch button.
type StatusResponse struct {
	EmployeeID   int64   `json:"employee_id"`
	State        State   `json:"state"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	ServerTime   string  `json:"server_time,omitempty"`
	Button       Button  `json:"button"`
}

type Button struct {
	Label   string `json:"label"`
	Action  Action `json:"action,omitempty"`
	Enabled bool   `json:"enabled"`
	Busy    bool   `json:"busy"`
}

// ToResponse renders a status. busy is true while a punch is in flight.
func ToResponse(s DailyStatus, busy bool) StatusResponse {
	return StatusResponse{
		EmployeeID:   s.EmployeeID,
		State:        s.State,
		ClockInTime:  s.ClockInTime,
		ClockOutTime: s.ClockOutTime,
		ServerTime:   s.ServerTime,
		Button: Button{
			Label:   s.State.Label(),
			Action:  s.State.NextAction(),
			Enabled: !busy && !s.State.IsTerminal(),
			Busy:    busy,
		},
	}
}
