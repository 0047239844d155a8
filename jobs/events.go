package jobs

import (
	"sync"
	"time"
)

// Event describes one job lifecycle transition.
type Event struct {
	JobID  string    `json:"job_id"`
	Name   string    `json:"name"`
	State  State     `json:"state"`
	Output string    `json:"output,omitempty"`
	Time   time.Time `json:"time"`
}

// EventBus fans out job transitions to subscribers.
type EventBus struct {
	mu          sync.Mutex
	subscribers map[string]chan Event
	closed      bool
}

// NewEventBus creates a new EventBus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string]chan Event)}
}

// Publish sends an event to all subscribers (non-blocking).
func (eb *EventBus) Publish(event Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Drop event for slow subscribers to avoid blocking
		}
	}
}

// Subscribe creates a new subscription and returns an event channel.
func (eb *EventBus) Subscribe(id string) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	ch := make(chan Event, 64)
	eb.subscribers[id] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if ch, ok := eb.subscribers[id]; ok {
		close(ch)
		delete(eb.subscribers, id)
	}
}

// Close shuts down the event bus and closes all subscriber channels.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.closed = true
	for id, ch := range eb.subscribers {
		close(ch)
		delete(eb.subscribers, id)
	}
}
