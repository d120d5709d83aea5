package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDeriveState(t *testing.T) {
	tests := []struct {
		name     string
		clockIn  *string
		clockOut *string
		want     State
		wantErr  error
	}{
		{"no record", nil, nil, StateAwaitingClockIn, nil},
		{"clocked in", ptr("08:00:00"), nil, StateClockedIn, nil},
		{"complete", ptr("08:00:00"), ptr("17:00:00"), StateDayComplete, nil},
		{"out without in", nil, ptr("17:00:00"), "", ErrInconsistentStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveState(tt.clockIn, tt.clockOut)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDailyStatus_EmptyStringsAreUnset(t *testing.T) {
	s, err := NewDailyStatus(7, ptr(""), ptr(""), "")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingClockIn, s.State)
	assert.Nil(t, s.ClockInTime)
	assert.Nil(t, s.ClockOutTime)
}

func TestToResponse(t *testing.T) {
	s, err := NewDailyStatus(7, ptr("08:00:00"), nil, "2026-10-19T08:00:05Z")
	require.NoError(t, err)

	resp := ToResponse(s, false)
	assert.Equal(t, Button{Label: "Marcar salida", Action: ActionClockOut, Enabled: true}, resp.Button)

	busy := ToResponse(s, true)
	assert.False(t, busy.Button.Enabled)
	assert.True(t, busy.Button.Busy)

	done := ToResponse(DailyStatus{State: StateDayComplete}, false)
	assert.Equal(t, "Jornada completa", done.Button.Label)
	assert.Equal(t, ActionNone, done.Button.Action)
	assert.False(t, done.Button.Enabled)
}
