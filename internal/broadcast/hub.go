// Package broadcast provides a non-blocking fan-out of workflow progress
// events to interested subscribers.
package broadcast

import (
	"log/slog"
	"sync"

	"sqlstudio/internal/domain"
)

const defaultBufferSize = 64

// Hub fans out progress events to subscribers. A subscriber registers for
// a single job ID, or for all jobs with the empty string. Delivery never
// blocks the publisher: a subscriber whose channel is full misses the
// event.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan domain.Event]string
	size   int
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan domain.Event]string),
		size:   defaultBufferSize,
		logger: logger.With("component", "broadcast"),
	}
}

var _ domain.Broadcaster = (*Hub)(nil)

// Subscribe returns a channel delivering events for jobID, or for every
// job when jobID is empty. The caller must Unsubscribe when done.
func (h *Hub) Subscribe(jobID string) chan domain.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.Event, h.size)
	h.subs[ch] = jobID
	return ch
}

func (h *Hub) Unsubscribe(ch chan domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Broadcast delivers event to all matching subscribers without blocking.
func (h *Hub) Broadcast(jobID string, event domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch, filter := range h.subs {
		if filter != "" && filter != jobID {
			continue
		}
		select {
		case ch <- event:
		default:
			h.logger.Warn("subscriber channel full, dropping event",
				"job_id", jobID, "event", event.Kind)
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
