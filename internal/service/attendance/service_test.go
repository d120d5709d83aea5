package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer behaves like the upstream punch endpoint for a single day.
type fakeServer struct {
	mu         sync.Mutex
	clockIn    *string
	clockOut   *string
	fetchErr   error
	punchErr   error
	fetchCalls int
	punchCalls int

	entered chan struct{}
	release chan struct{}

	// fetchRelease, when set, holds every fetch until closed or the
	// fetch context is done. fetchEntered is signalled without blocking.
	fetchEntered chan struct{}
	fetchRelease chan struct{}
}

func (f *fakeServer) FetchToday(ctx context.Context, employeeID int64) (attendance.DailyStatus, error) {
	if f.fetchRelease != nil {
		select {
		case f.fetchEntered <- struct{}{}:
		default:
		}
		select {
		case <-f.fetchRelease:
		case <-ctx.Done():
			return attendance.DailyStatus{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++

	if f.fetchErr != nil {
		return attendance.DailyStatus{}, f.fetchErr
	}
	if f.clockIn == nil {
		return attendance.DailyStatus{}, attendance.ErrStatusNotFound
	}
	return attendance.NewDailyStatus(employeeID, f.clockIn, f.clockOut, "2026-10-19T12:00:00Z")
}

func (f *fakeServer) Punch(ctx context.Context, employeeID int64) (attendance.DailyStatus, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.punchCalls++

	if f.punchErr != nil {
		return attendance.DailyStatus{}, f.punchErr
	}
	switch {
	case f.clockIn == nil:
		in := "08:00:00"
		f.clockIn = &in
	case f.clockOut == nil:
		out := "17:00:00"
		f.clockOut = &out
	default:
		return attendance.DailyStatus{}, errors.New("already complete")
	}
	return attendance.NewDailyStatus(employeeID, f.clockIn, f.clockOut, "2026-10-19T12:00:00Z")
}

func (f *fakeServer) calls() (fetch, punch int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls, f.punchCalls
}

func sessionCtx() context.Context {
	return session.NewContext(context.Background(), session.Session{Token: "t", UserID: "u-1", EmployeeID: 7})
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLoadStatus_NotFoundIsAwaiting(t *testing.T) {
	server := &fakeServer{}
	svc := NewPunchClockService(server, nil)

	resp, err := svc.LoadStatus(sessionCtx(), 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateAwaitingClockIn, resp.State)
	assert.Equal(t, attendance.ActionClockIn, resp.Button.Action)
	assert.Equal(t, "Marcar entrada", resp.Button.Label)
	assert.True(t, resp.Button.Enabled)
}

func TestLoadStatus_ErrorIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	server := &fakeServer{fetchErr: boom}
	svc := NewPunchClockService(server, nil)

	_, err := svc.LoadStatus(sessionCtx(), 7)
	assert.ErrorIs(t, err, boom)

	_, ok := svc.Snapshot(7)
	assert.False(t, ok)
}

func TestLoadStatus_InvalidEmployee(t *testing.T) {
	svc := NewPunchClockService(&fakeServer{}, nil)

	_, err := svc.LoadStatus(sessionCtx(), 0)
	assert.ErrorIs(t, err, attendance.ErrInvalidEmployeeID)
}

func TestSubmitPunch_FullDay(t *testing.T) {
	server := &fakeServer{}
	svc := NewPunchClockService(server, nil)
	ctx := sessionCtx()

	_, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)

	first, err := svc.SubmitPunch(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, first.State)
	require.NotNil(t, first.ClockInTime)
	assert.Nil(t, first.ClockOutTime)
	assert.Equal(t, "Marcar salida", first.Button.Label)

	second, err := svc.SubmitPunch(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateDayComplete, second.State)
	require.NotNil(t, second.ClockOutTime)
	assert.False(t, second.Button.Enabled)

	third, err := svc.SubmitPunch(ctx, 7)
	assert.ErrorIs(t, err, attendance.ErrDayComplete)
	assert.Equal(t, attendance.StateDayComplete, third.State)

	fetches, punches := server.calls()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 2, punches)
}

func TestSubmitPunch_DayCompleteMakesNoCall(t *testing.T) {
	in, out := "08:00:00", "17:00:00"
	server := &fakeServer{clockIn: &in, clockOut: &out}
	svc := NewPunchClockService(server, nil)
	ctx := sessionCtx()

	_, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)

	_, err = svc.SubmitPunch(ctx, 7)
	assert.ErrorIs(t, err, attendance.ErrDayComplete)

	_, punches := server.calls()
	assert.Zero(t, punches)
}

func TestSubmitPunch_LoadsWhenNothingConfirmed(t *testing.T) {
	in := "08:00:00"
	server := &fakeServer{clockIn: &in}
	svc := NewPunchClockService(server, nil)

	resp, err := svc.SubmitPunch(sessionCtx(), 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateDayComplete, resp.State)

	fetches, punches := server.calls()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, punches)
}

func TestSubmitPunch_FailureKeepsConfirmedState(t *testing.T) {
	rejected := errors.New("outside work schedule")
	server := &fakeServer{punchErr: rejected}
	svc := NewPunchClockService(server, nil)
	ctx := sessionCtx()

	_, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)

	resp, err := svc.SubmitPunch(ctx, 7)
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, attendance.StateAwaitingClockIn, resp.State)

	snap, ok := svc.Snapshot(7)
	require.True(t, ok)
	assert.Equal(t, attendance.StateAwaitingClockIn, snap.State)
	assert.True(t, snap.Button.Enabled)
	assert.False(t, snap.Button.Busy)

	_, punches := server.calls()
	assert.Equal(t, 1, punches)
}

func TestSubmitPunch_SecondPunchWhileInFlight(t *testing.T) {
	server := &fakeServer{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := NewPunchClockService(server, nil)
	ctx := sessionCtx()

	_, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SubmitPunch(ctx, 7)
		done <- err
	}()
	<-server.entered

	snap, ok := svc.Snapshot(7)
	require.True(t, ok)
	assert.True(t, snap.Button.Busy)
	assert.False(t, snap.Button.Enabled)

	resp, err := svc.SubmitPunch(ctx, 7)
	assert.ErrorIs(t, err, attendance.ErrPunchInFlight)
	assert.True(t, resp.Button.Busy)

	close(server.release)
	require.NoError(t, <-done)

	_, punches := server.calls()
	assert.Equal(t, 1, punches)

	snap, ok = svc.Snapshot(7)
	require.True(t, ok)
	assert.Equal(t, attendance.StateClockedIn, snap.State)
	assert.False(t, snap.Button.Busy)
}

func TestSubmitPunch_PreviousDayStatusIsReloaded(t *testing.T) {
	in, out := "08:00:00", "17:00:00"
	server := &fakeServer{clockIn: &in, clockOut: &out}
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	svc := NewPunchClockService(server, nil, WithClock(func() time.Time { return now }))
	ctx := sessionCtx()

	_, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)

	// next morning the server has no record yet
	now = now.Add(15 * time.Hour)
	server.mu.Lock()
	server.clockIn, server.clockOut = nil, nil
	server.mu.Unlock()

	_, ok := svc.Snapshot(7)
	assert.False(t, ok)

	resp, err := svc.SubmitPunch(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, resp.State)

	fetches, punches := server.calls()
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 1, punches)
}

func TestSubmitPunch_PublishesStatus(t *testing.T) {
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(7)
	defer cleanup()

	svc := NewPunchClockService(&fakeServer{}, hub, WithClock(fixedClock(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))))

	_, err := svc.SubmitPunch(sessionCtx(), 7)
	require.NoError(t, err)

	require.Len(t, events, 1)
	ev := <-events
	assert.Equal(t, attendance.EventStatusChanged, ev.Event)
	resp, ok := ev.Data.(attendance.StatusResponse)
	require.True(t, ok)
	assert.Equal(t, attendance.StateClockedIn, resp.State)
}

func TestLoadStatus_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	server := &fakeServer{
		fetchEntered: make(chan struct{}, 1),
		fetchRelease: make(chan struct{}),
	}
	svc := NewPunchClockService(server, nil)
	base := sessionCtx()

	ctxA, cancelA := context.WithCancel(base)
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := svc.LoadStatus(ctxA, 7)
		errA <- err
	}()
	<-server.fetchEntered

	type loadResult struct {
		resp attendance.StatusResponse
		err  error
	}
	resB := make(chan loadResult, 1)
	go func() {
		resp, err := svc.LoadStatus(base, 7)
		resB <- loadResult{resp, err}
	}()

	// give the second tab time to join the shared load
	time.Sleep(20 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(server.fetchRelease)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, attendance.StateAwaitingClockIn, b.resp.State)

	snap, ok := svc.Snapshot(7)
	require.True(t, ok)
	assert.Equal(t, attendance.StateAwaitingClockIn, snap.State)
}

func TestEvictStale(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	server := &fakeServer{}
	svc := NewPunchClockService(server, nil, WithClock(func() time.Time { return now }))
	ctx := sessionCtx()

	_, err := svc.SubmitPunch(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, svc.EvictStale(ctx))
	_, ok := svc.Snapshot(7)
	assert.True(t, ok, "today's status is kept")

	now = now.Add(24 * time.Hour)
	require.NoError(t, svc.EvictStale(ctx))

	svc.mu.Lock()
	assert.Empty(t, svc.confirmed)
	assert.Empty(t, svc.loadedOn)
	assert.Empty(t, svc.gen)
	svc.mu.Unlock()

	// an evicted employee loads and punches again from scratch
	resp, err := svc.LoadStatus(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateClockedIn, resp.State)

	snap, ok := svc.Snapshot(7)
	require.True(t, ok)
	assert.Equal(t, attendance.StateClockedIn, snap.State)
}
