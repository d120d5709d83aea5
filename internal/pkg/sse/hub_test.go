package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatEmployee(t *testing.T) {
	hub := NewHub()

	mine, cleanupMine := hub.Subscribe(7)
	defer cleanupMine()
	other, cleanupOther := hub.Subscribe(8)
	defer cleanupOther()

	hub.Publish(7, Event{Event: "attendance.status", Data: "CLOCKED_IN"})

	require.Len(t, mine, 1)
	ev := <-mine
	assert.Equal(t, int64(7), ev.EmployeeID)
	assert.Equal(t, "attendance.status", ev.Event)
	assert.Len(t, other, 0)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe(7)
	assert.Equal(t, 1, hub.SubscriberCount(7))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount(7))

	// publishing with no subscribers is a no-op
	hub.Publish(7, Event{Event: "attendance.status"})
}

func TestHub_FullChannelDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(7)
	defer cleanup()

	for i := 0; i < 20; i++ {
		hub.Publish(7, Event{Event: "attendance.status", Data: i})
	}
	assert.Len(t, ch, 10)
}
