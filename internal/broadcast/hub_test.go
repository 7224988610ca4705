package broadcast

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/domain"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.DiscardHandler))
}

func TestBroadcastToJobSubscriber(t *testing.T) {
	hub := newTestHub()
	ch := hub.Subscribe("job-1")
	defer hub.Unsubscribe(ch)

	hub.Broadcast("job-1", domain.Event{Kind: domain.EventExecutionStarted, JobID: "job-1"})
	hub.Broadcast("job-2", domain.Event{Kind: domain.EventExecutionStarted, JobID: "job-2"})

	require.Len(t, ch, 1)
	got := <-ch
	assert.Equal(t, domain.EventExecutionStarted, got.Kind)
	assert.Equal(t, "job-1", got.JobID)
}

func TestBroadcastToWildcardSubscriber(t *testing.T) {
	hub := newTestHub()
	ch := hub.Subscribe("")
	defer hub.Unsubscribe(ch)

	hub.Broadcast("job-1", domain.Event{Kind: domain.EventExecutionStarted, JobID: "job-1"})
	hub.Broadcast("job-2", domain.Event{Kind: domain.EventExecutionCompleted, JobID: "job-2"})

	assert.Len(t, ch, 2)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	hub := newTestHub()
	hub.size = 1
	ch := hub.Subscribe("job-1")
	defer hub.Unsubscribe(ch)

	hub.Broadcast("job-1", domain.Event{Kind: domain.EventStepStarted})
	// Channel is full; this one is dropped rather than blocking.
	hub.Broadcast("job-1", domain.Event{Kind: domain.EventStepCompleted})

	require.Len(t, ch, 1)
	got := <-ch
	assert.Equal(t, domain.EventStepStarted, got.Kind)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := newTestHub()
	ch := hub.Subscribe("job-1")
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(ch)
	assert.Equal(t, 0, hub.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is a no-op.
	hub.Unsubscribe(ch)
}
