package attendance

// State is the punch-clock state of one employee for the current business day.
type State string

const (
	StateAwaitingClockIn State = "AWAITING_CLOCK_IN"
	StateClockedIn       State = "CLOCKED_IN"
	StateDayComplete     State = "DAY_COMPLETE"
)

// Action is the punch implied by a state.
type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
	ActionNone     Action = ""
)

// DailyStatus is one employee's attendance for today, as last confirmed by the server.
type DailyStatus struct {
	EmployeeID   int64
	State        State
	ClockInTime  *string
	ClockOutTime *string
	ServerTime   string
}

// DeriveState computes the state from the server-reported clock times. It is
// the only place the state is inferred from optional fields.
func DeriveState(clockIn, clockOut *string) (State, error) {
	hasIn := clockIn != nil && *clockIn != ""
	hasOut := clockOut != nil && *clockOut != ""

	switch {
	case hasIn && hasOut:
		return StateDayComplete, nil
	case hasIn:
		return StateClockedIn, nil
	case hasOut:
		return "", ErrInconsistentStatus
	default:
		return StateAwaitingClockIn, nil
	}
}

// NewDailyStatus builds a status with its state derived from the times.
func NewDailyStatus(employeeID int64, clockIn, clockOut *string, serverTime string) (DailyStatus, error) {
	if clockIn != nil && *clockIn == "" {
		clockIn = nil
	}
	if clockOut != nil && *clockOut == "" {
		clockOut = nil
	}
	state, err := DeriveState(clockIn, clockOut)
	if err != nil {
		return DailyStatus{}, err
	}
	return DailyStatus{
		EmployeeID:   employeeID,
		State:        state,
		ClockInTime:  clockIn,
		ClockOutTime: clockOut,
		ServerTime:   serverTime,
	}, nil
}

// AwaitingStatus is the status of an employee with no record yet today.
func AwaitingStatus(employeeID int64) DailyStatus {
	return DailyStatus{EmployeeID: employeeID, State: StateAwaitingClockIn}
}

// NextAction returns the punch a submission would send from this state.
func (s State) NextAction() Action {
	switch s {
	case StateAwaitingClockIn:
		return ActionClockIn
	case StateClockedIn:
		return ActionClockOut
	default:
		return ActionNone
	}
}

func (s State) IsTerminal() bool {
	return s == StateDayComplete
}

func (s State) IsValid() bool {
	switch s {
	case StateAwaitingClockIn, StateClockedIn, StateDayComplete:
		return true
	}
	return false
}

// Label is the text of the single punch button.
func (s State) Label() string {
	switch s {
	case StateAwaitingClockIn:
		return "Marcar entrada"
	case StateClockedIn:
		return "Marcar salida"
	case StateDayComplete:
		return "Jornada completa"
	default:
		return ""
	}
}
