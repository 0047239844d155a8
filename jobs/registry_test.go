package jobs

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestRegistry_ListFilterAndOrder(t *testing.T) {
	registry := NewRegistry()
	runner := NewRunner(registry, nil, zerolog.Nop())

	j1 := runner.Start(context.Background(), "deploy-network", func(context.Context) (string, error) { return "", nil })
	j2 := runner.Start(context.Background(), "monitor-vpn-gateway", func(context.Context) (string, error) { return "", nil })
	waitDone(t, j1)
	waitDone(t, j2)

	all := registry.List("")
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}

	monitors := registry.List("monitor-")
	if len(monitors) != 1 || monitors[0].ID != j2.ID() {
		t.Fatalf("filtered list = %+v", monitors)
	}
}

func TestRegistry_ReadsAreIdempotent(t *testing.T) {
	registry := NewRegistry()
	runner := NewRunner(registry, nil, zerolog.Nop())

	j1 := runner.Start(context.Background(), "a", func(context.Context) (string, error) { return "out-a", nil })
	j2 := runner.Start(context.Background(), "b", func(context.Context) (string, error) { return "out-b", nil })
	waitDone(t, j1)
	waitDone(t, j2)

	first := registry.List("")
	second := registry.List("")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two reads of an unchanged registry differ:\n%+v\n%+v", first, second)
	}
	if registry.Len() != 2 {
		t.Fatal("read mutated the registry")
	}
}

func TestRegistry_CleanupOnlyTerminal(t *testing.T) {
	registry := NewRegistry()
	runner := NewRunner(registry, nil, zerolog.Nop())

	release := make(chan struct{})
	running := runner.Start(context.Background(), "running", func(context.Context) (string, error) {
		<-release
		return "", nil
	})
	finished := runner.Start(context.Background(), "finished", func(context.Context) (string, error) { return "", nil })
	waitDone(t, finished)

	removed := registry.Cleanup()
	if len(removed) != 1 || removed[0].ID != finished.ID() {
		t.Fatalf("removed = %+v, want only the finished job", removed)
	}
	if _, ok := registry.Get(running.ID()); !ok {
		t.Fatal("running job was removed")
	}
	if registry.Len() != 1 {
		t.Fatalf("len = %d, want 1", registry.Len())
	}

	close(release)
	waitDone(t, running)

	// Cleanup is explicit, never automatic: the now-finished job stays
	// until the caller asks again.
	if registry.Len() != 1 {
		t.Fatal("terminal job vanished without an explicit cleanup")
	}
	registry.Cleanup()
	if registry.Len() != 0 {
		t.Fatalf("len = %d after second cleanup, want 0", registry.Len())
	}
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{StateQueued, StateRunning} {
		if s.Terminal() {
			t.Fatalf("%v must not be terminal", s)
		}
	}
	for _, s := range []State{StateCompleted, StateFailed, StateTimedOut} {
		if !s.Terminal() {
			t.Fatalf("%v must be terminal", s)
		}
	}
}
