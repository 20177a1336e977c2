// Package stream fan-outs attendance marking events to live subscribers
// (the SSE feed on the dashboard).
package stream

import (
	"context"
	"sync"
	"time"

	"rollcall.org/internal/roster"
)

// MarkEvent describes one attendance marking as it happens.
type MarkEvent struct {
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName,omitempty"`
	Date         string        `json:"date"`
	Status       roster.Status `json:"status"`
	Created      bool          `json:"created"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Stream fan-outs mark events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan MarkEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan MarkEvent)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan MarkEvent {
	ch := make(chan MarkEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish delivers the event to every subscriber, dropping it for any
// subscriber whose buffer is full.
func (s *Stream) Publish(ev MarkEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
