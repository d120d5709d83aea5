package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/sse"
	"golang.org/x/sync/singleflight"
)

type PunchClockServiceImpl struct {
	gateway attendance.Gateway
	hub     *sse.Hub
	loads   singleflight.Group
	now     func() time.Time

	mu        sync.Mutex
	confirmed map[int64]attendance.DailyStatus
	loadedOn  map[int64]string
	inFlight  map[int64]bool
	gen       map[int64]uint64
	// seq feeds gen so an evicted employee never reuses a generation
	seq uint64
}

type Option func(*PunchClockServiceImpl)

// WithClock replaces time.Now. The clock only decides when a cached status
// belongs to a previous day; the state itself always comes from the server.
func WithClock(now func() time.Time) Option {
	return func(s *PunchClockServiceImpl) {
		s.now = now
	}
}

// NewPunchClockService builds the service. hub may be nil.
func NewPunchClockService(gateway attendance.Gateway, hub *sse.Hub, opts ...Option) *PunchClockServiceImpl {
	s := &PunchClockServiceImpl{
		gateway:   gateway,
		hub:       hub,
		now:       time.Now,
		confirmed: make(map[int64]attendance.DailyStatus),
		loadedOn:  make(map[int64]string),
		inFlight:  make(map[int64]bool),
		gen:       make(map[int64]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ attendance.PunchClockService = (*PunchClockServiceImpl)(nil)

// LoadStatus implements attendance.PunchClockService.
func (s *PunchClockServiceImpl) LoadStatus(ctx context.Context, employeeID int64) (attendance.StatusResponse, error) {
	status, err := s.load(ctx, employeeID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.ToResponse(status, s.inFlight[employeeID]), nil
}

// SubmitPunch implements attendance.PunchClockService.
func (s *PunchClockServiceImpl) SubmitPunch(ctx context.Context, employeeID int64) (attendance.StatusResponse, error) {
	if employeeID <= 0 {
		return attendance.StatusResponse{}, attendance.ErrInvalidEmployeeID
	}

	s.mu.Lock()
	if s.inFlight[employeeID] {
		current := s.confirmed[employeeID]
		s.mu.Unlock()
		return attendance.ToResponse(current, true), attendance.ErrPunchInFlight
	}
	s.inFlight[employeeID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, employeeID)
		s.mu.Unlock()
	}()

	current, ok := s.cached(employeeID)
	if !ok {
		var err error
		current, err = s.load(ctx, employeeID)
		if err != nil {
			return attendance.StatusResponse{}, err
		}
	}

	if current.State.IsTerminal() {
		return attendance.ToResponse(current, false), attendance.ErrDayComplete
	}

	updated, err := s.gateway.Punch(ctx, employeeID)
	if err != nil {
		slog.Warn("Punch rejected",
			"employee_id", employeeID,
			"action", current.State.NextAction(),
			"error", err,
		)
		return attendance.ToResponse(current, false), fmt.Errorf("failed to submit %s: %w", current.State.NextAction(), err)
	}

	s.mu.Lock()
	s.seq++
	s.gen[employeeID] = s.seq
	s.store(employeeID, updated)
	s.mu.Unlock()

	resp := attendance.ToResponse(updated, false)
	if s.hub != nil {
		s.hub.Publish(employeeID, sse.Event{Event: attendance.EventStatusChanged, Data: resp})
	}

	return resp, nil
}

// Snapshot implements attendance.PunchClockService.
func (s *PunchClockServiceImpl) Snapshot(employeeID int64) (attendance.StatusResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.confirmed[employeeID]
	if !ok || s.loadedOn[employeeID] != s.today() {
		return attendance.StatusResponse{}, false
	}
	return attendance.ToResponse(status, s.inFlight[employeeID]), true
}

// EvictStale forgets statuses confirmed on a previous day. They would be
// reloaded on next use anyway; eviction only bounds memory.
func (s *PunchClockServiceImpl) EvictStale(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	evicted := 0
	for id, day := range s.loadedOn {
		if day == today || s.inFlight[id] {
			continue
		}
		delete(s.confirmed, id)
		delete(s.loadedOn, id)
		delete(s.gen, id)
		evicted++
	}
	if evicted > 0 {
		slog.Debug("Evicted stale attendance statuses", "count", evicted)
	}
	return nil
}

// load fetches today's status once for all concurrent callers of the same
// session and employee. A load that started before a punch was confirmed does
// not overwrite the punch result.
func (s *PunchClockServiceImpl) load(ctx context.Context, employeeID int64) (attendance.DailyStatus, error) {
	if employeeID <= 0 {
		return attendance.DailyStatus{}, attendance.ErrInvalidEmployeeID
	}

	s.mu.Lock()
	startGen := s.gen[employeeID]
	s.mu.Unlock()

	// The shared fetch must not die with whichever caller started it; each
	// caller stops waiting on its own context instead.
	fetchCtx := context.WithoutCancel(ctx)
	results := s.loads.DoChan(loadKey(ctx, employeeID), func() (interface{}, error) {
		status, err := s.gateway.FetchToday(fetchCtx, employeeID)
		if errors.Is(err, attendance.ErrStatusNotFound) {
			return attendance.AwaitingStatus(employeeID), nil
		}
		if err != nil {
			return nil, err
		}
		return status, nil
	})

	var res singleflight.Result
	select {
	case res = <-results:
	case <-ctx.Done():
		return attendance.DailyStatus{}, fmt.Errorf("failed to load attendance status: %w", ctx.Err())
	}
	if res.Err != nil {
		return attendance.DailyStatus{}, fmt.Errorf("failed to load attendance status: %w", res.Err)
	}
	v := res.Val
	status := v.(attendance.DailyStatus)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[employeeID] != startGen {
		// a punch confirmed meanwhile wins; an eviction leaves nothing to keep
		if current, ok := s.confirmed[employeeID]; ok {
			return current, nil
		}
	}
	s.store(employeeID, status)
	return status, nil
}

func (s *PunchClockServiceImpl) cached(employeeID int64) (attendance.DailyStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.confirmed[employeeID]
	if !ok || s.loadedOn[employeeID] != s.today() {
		return attendance.DailyStatus{}, false
	}
	return status, true
}

// store must be called with mu held.
func (s *PunchClockServiceImpl) store(employeeID int64, status attendance.DailyStatus) {
	s.confirmed[employeeID] = status
	s.loadedOn[employeeID] = s.today()
}

func (s *PunchClockServiceImpl) today() string {
	return s.now().Format("2006-01-02")
}

func loadKey(ctx context.Context, employeeID int64) string {
	userID := ""
	if sess, err := session.FromContext(ctx); err == nil {
		userID = sess.UserID
	}
	return userID + "/" + strconv.FormatInt(employeeID, 10)
}
