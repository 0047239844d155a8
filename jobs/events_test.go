package jobs

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	ch := eb.Subscribe("sub1")
	eb.Publish(Event{JobID: "abc", State: StateRunning})

	select {
	case ev := <-ch:
		if ev.JobID != "abc" || ev.State != StateRunning {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	ch := eb.Subscribe("sub1")
	eb.Unsubscribe("sub1")

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	eb := NewEventBus()
	eb.Close()
	// Must not panic.
	eb.Publish(Event{JobID: "late"})
}
