package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"github.com/cmlabs-hris/planilla-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/planilla-portal-go/internal/pkg/sse"
)

type AttendanceHandler interface {
	GetMyStatus(w http.ResponseWriter, r *http.Request)
	Punch(w http.ResponseWriter, r *http.Request)
	IssueStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)

	// Admin view
	GetEmployeeStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	punchClock attendance.PunchClockService
	hub        *sse.Hub
	jwtService jwt.Service
	keepAlive  time.Duration
}

func NewAttendanceHandler(punchClock attendance.PunchClockService, hub *sse.Hub, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		punchClock: punchClock,
		hub:        hub,
		jwtService: jwtService,
		keepAlive:  30 * time.Second,
	}
}

// GetMyStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.punchClock.LoadStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.punchClock.SubmitPunch(r.Context(), employeeID)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrDayComplete):
			response.ConflictWithData(w, "Attendance for today is already complete", status)
		case errors.Is(err, attendance.ErrPunchInFlight):
			response.ConflictWithData(w, "A punch is already being submitted", status)
		default:
			response.HandleError(w, err)
		}
		return
	}

	message := "Clock-in recorded"
	if status.State == attendance.StateDayComplete {
		message = "Clock-out recorded"
	}
	response.SuccessWithMessage(w, message, status)
}

// IssueStreamToken implements AttendanceHandler.
func (h *attendanceHandlerImpl) IssueStreamToken(w http.ResponseWriter, r *http.Request) {
	s, err := session.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(s)
	if err != nil {
		slog.Error("GenerateSSEToken error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream implements AttendanceHandler. It pushes the confirmed status after
// every punch made from any of the employee's open tabs.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	employeeID, err := session.EmployeeIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":%d}\n\n", employeeID)
	if snapshot, ok := h.punchClock.Snapshot(employeeID); ok {
		writeEvent(w, sse.Event{Event: attendance.EventStatusChanged, Data: snapshot})
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepAlive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event sse.Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		slog.Warn("Failed to encode attendance event", "event", event.Event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
}

// GetEmployeeStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employeeId")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.punchClock.LoadStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

