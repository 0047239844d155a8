package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
)

// fakeClock advances instantly: After moves the current time forward by d
// and fires immediately, so tests never sleep.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d)
	c.sleeps++
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// scriptedQuerier returns one scripted answer per call, repeating the last
// one when the script runs out.
type scriptedQuerier struct {
	states []string
	errs   []error
	calls  int
}

func (q *scriptedQuerier) ProvisioningState(_ context.Context, _ string, _ deploy.Component, _ string) (string, error) {
	call := q.calls
	q.calls++
	i := call
	if i >= len(q.states) {
		i = len(q.states) - 1
	}
	var err error
	if call < len(q.errs) {
		err = q.errs[call]
	}
	return q.states[i], err
}

func testSession(logPath string) Session {
	return Session{
		ResourceGroup: "homelab-rg",
		Component:     deploy.ComponentVPNGateway,
		ResourceName:  "homelab-vpngw",
		PollInterval:  30 * time.Second,
		Timeout:       10 * time.Minute,
		LogPath:       logPath,
	}
}

func TestPoller_FirstTickSuccess(t *testing.T) {
	clock := newFakeClock()
	q := &scriptedQuerier{states: []string{"Succeeded"}}
	p := NewPoller(q, clock, zerolog.Nop())

	out, err := p.Run(context.Background(), testSession(""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", out.State)
	}
	if out.Ticks != 1 {
		t.Fatalf("ticks = %d, want 1", out.Ticks)
	}
	if clock.sleeps != 0 {
		t.Fatalf("poller slept %d times before succeeding on the first tick", clock.sleeps)
	}
}

func TestPoller_TimedOut(t *testing.T) {
	clock := newFakeClock()
	q := &scriptedQuerier{states: []string{"Updating"}}
	p := NewPoller(q, clock, zerolog.Nop())

	sess := testSession("")
	sess.Timeout = time.Minute // ticks at 0s and 30s, deadline hit at 60s

	out, err := p.Run(context.Background(), sess)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateTimedOut {
		t.Fatalf("state = %v, want timed-out", out.State)
	}
	if out.Ticks != 2 {
		t.Fatalf("ticks = %d, want 2", out.Ticks)
	}
	if q.calls != 2 {
		t.Fatalf("querier called %d times after timeout, want 2", q.calls)
	}
}

func TestPoller_FailureLogsOnlyChanges(t *testing.T) {
	clock := newFakeClock()
	q := &scriptedQuerier{states: []string{"Updating", "Updating", "Failed"}}
	p := NewPoller(q, clock, zerolog.Nop())

	logPath := filepath.Join(t.TempDir(), "session.log")
	out, err := p.Run(context.Background(), testSession(logPath))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateFailed {
		t.Fatalf("state = %v, want failed", out.State)
	}
	if out.Ticks != 3 {
		t.Fatalf("ticks = %d, want 3", out.Ticks)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	changed := strings.Count(content, "status changed")
	if changed != 2 {
		t.Fatalf("log has %d status-changed lines, want 2:\n%s", changed, content)
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "failed") {
		t.Fatalf("last line = %q, want terminal failed line", last)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "[") {
			t.Fatalf("line missing timestamp prefix: %q", line)
		}
	}
}

func TestPoller_Canceled(t *testing.T) {
	clock := newFakeClock()
	q := &scriptedQuerier{states: []string{"Updating", "Canceled"}}
	p := NewPoller(q, clock, zerolog.Nop())

	out, err := p.Run(context.Background(), testSession(""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateCanceled {
		t.Fatalf("state = %v, want canceled", out.State)
	}
}

func TestPoller_TransientErrorKeepsPolling(t *testing.T) {
	clock := newFakeClock()
	notFound := errors.New("resource not found")
	q := &scriptedQuerier{
		states: []string{"", "", "Succeeded"},
		errs:   []error{notFound, notFound, nil},
	}
	p := NewPoller(q, clock, zerolog.Nop())

	out, err := p.Run(context.Background(), testSession(""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", out.State)
	}
	if out.Ticks != 3 {
		t.Fatalf("ticks = %d, want 3", out.Ticks)
	}
}

func TestPoller_LogAppendOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "session.log")

	run := func(states []string) {
		t.Helper()
		clock := newFakeClock()
		q := &scriptedQuerier{states: states}
		p := NewPoller(q, clock, zerolog.Nop())
		if _, err := p.Run(context.Background(), testSession(logPath)); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	run([]string{"Updating", "Succeeded"})
	first, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	run([]string{"Succeeded"})
	second, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(second), string(first)) {
		t.Fatal("log file was truncated or rewritten; must only be appended to")
	}
	if len(second) <= len(first) {
		t.Fatal("second session appended nothing")
	}
}

func TestPoller_ContextCanceled(t *testing.T) {
	clock := newFakeClock()
	q := &scriptedQuerier{states: []string{"Updating"}}
	p := NewPoller(q, clock, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := p.Run(ctx, testSession(""))
	if err == nil {
		t.Fatal("want context error")
	}
	if out.State != StateError {
		t.Fatalf("state = %v, want error", out.State)
	}
}

func TestSessionState_Terminal(t *testing.T) {
	if StatePolling.Terminal() {
		t.Fatal("polling must not be terminal")
	}
	for _, s := range []SessionState{StateSucceeded, StateFailed, StateCanceled, StateTimedOut, StateError} {
		if !s.Terminal() {
			t.Fatalf("%v must be terminal", s)
		}
	}
}
