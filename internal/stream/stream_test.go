package stream

import (
	"context"
	"testing"
	"time"

	"rollcall.org/internal/roster"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Subscribe(ctx)
	b := s.Subscribe(ctx)

	ev := MarkEvent{EmployeeID: "emp-1", Date: "2025-03-10", Status: roster.StatusPresent, Created: true}
	s.Publish(ev)

	for name, ch := range map[string]<-chan MarkEvent{"a": a, "b": b} {
		select {
		case got := <-ch:
			if got.EmployeeID != "emp-1" || !got.Created {
				t.Fatalf("subscriber %s got %+v", name, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive the event", name)
		}
	}
}

func TestSubscribeClosesOnContextEnd(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after context end")
	}

	// Publishing after unsubscribe must not panic.
	s.Publish(MarkEvent{EmployeeID: "emp-1"})
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	for i := 0; i < 32; i++ {
		s.Publish(MarkEvent{EmployeeID: "emp-1", Date: "2025-03-10"})
	}
	// Buffer holds 16; the rest were dropped rather than blocking.
	if n := len(ch); n != 16 {
		t.Fatalf("buffered events = %d, want 16", n)
	}
}
