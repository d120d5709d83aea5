package sse

import (
	"sync"
)

// Event is pushed to every open stream of one employee.
type Event struct {
	EmployeeID int64
	Event      string
	Data       interface{}
}

// Hub fans attendance events out to the employee's open portal tabs.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream and returns its channel and cleanup function.
func (h *Hub) Subscribe(employeeID int64) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[employeeID] == nil {
		h.subscribers[employeeID] = make(map[chan Event]struct{})
	}
	h.subscribers[employeeID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[employeeID], ch)
		close(ch)
		if len(h.subscribers[employeeID]) == 0 {
			delete(h.subscribers, employeeID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all streams of one employee. Full channels are
// skipped.
func (h *Hub) Publish(employeeID int64, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.EmployeeID = employeeID
	for ch := range h.subscribers[employeeID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(employeeID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[employeeID])
}
