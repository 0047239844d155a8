package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitDone(t *testing.T, j *Job) {
	t.Helper()
	select {
	case <-j.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestRunner_Success(t *testing.T) {
	runner := NewRunner(NewRegistry(), nil, zerolog.Nop())
	j := runner.Start(context.Background(), "deploy-network", func(context.Context) (string, error) {
		return "all good", nil
	})

	waitDone(t, j)
	if j.State() != StateCompleted {
		t.Fatalf("state = %v, want completed", j.State())
	}
	if j.Output() != "all good" {
		t.Fatalf("output = %q", j.Output())
	}
	if !strings.HasPrefix(j.Name(), "deploy-network-") {
		t.Fatalf("name = %q, want base plus random suffix", j.Name())
	}
}

func TestRunner_NonBlocking(t *testing.T) {
	release := make(chan struct{})
	runner := NewRunner(NewRegistry(), nil, zerolog.Nop())

	start := time.Now()
	j := runner.Start(context.Background(), "slow", func(context.Context) (string, error) {
		<-release
		return "done", nil
	})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Start blocked for %s", elapsed)
	}

	if st := j.State(); st != StateQueued && st != StateRunning {
		t.Fatalf("state = %v, want queued or running", st)
	}
	if j.Output() != "" {
		t.Fatal("output must be empty before the job is terminal")
	}

	close(release)
	waitDone(t, j)
}

func TestRunner_ErrorBecomesFailed(t *testing.T) {
	runner := NewRunner(NewRegistry(), nil, zerolog.Nop())
	j := runner.Start(context.Background(), "bad", func(context.Context) (string, error) {
		return "partial output", errors.New("provisioning rejected")
	})

	waitDone(t, j)
	if j.State() != StateFailed {
		t.Fatalf("state = %v, want failed", j.State())
	}
	out := j.Output()
	if !strings.Contains(out, "partial output") || !strings.Contains(out, "provisioning rejected") {
		t.Fatalf("output = %q, want partial output plus error text", out)
	}
}

func TestRunner_PanicBecomesFailed(t *testing.T) {
	runner := NewRunner(NewRegistry(), nil, zerolog.Nop())
	j := runner.Start(context.Background(), "exploding", func(context.Context) (string, error) {
		panic("unexpected nil")
	})

	waitDone(t, j)
	if j.State() != StateFailed {
		t.Fatalf("state = %v, want failed", j.State())
	}
	if !strings.Contains(j.Output(), "unexpected nil") {
		t.Fatalf("output = %q, want panic text", j.Output())
	}
}

func TestRunner_TimedOut(t *testing.T) {
	runner := NewRunner(NewRegistry(), nil, zerolog.Nop())
	j := runner.Start(context.Background(), "slow-gateway", func(context.Context) (string, error) {
		return "gave up", ErrTimedOut
	})

	waitDone(t, j)
	if j.State() != StateTimedOut {
		t.Fatalf("state = %v, want timed-out", j.State())
	}
}

func TestRunner_PublishesTransitions(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()
	events := bus.Subscribe("test")

	runner := NewRunner(NewRegistry(), bus, zerolog.Nop())
	j := runner.Start(context.Background(), "watched", func(context.Context) (string, error) {
		return "ok", nil
	})
	waitDone(t, j)

	var states []State
	deadline := time.After(2 * time.Second)
	for len(states) < 3 {
		select {
		case ev := <-events:
			if ev.JobID != j.ID() {
				t.Fatalf("event for unexpected job %s", ev.JobID)
			}
			states = append(states, ev.State)
		case <-deadline:
			t.Fatalf("saw states %v, want queued, running, completed", states)
		}
	}
	want := []State{StateQueued, StateRunning, StateCompleted}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}
