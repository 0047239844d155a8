// Package jobs runs provisioning work as background units and tracks their
// lifecycle in an in-process registry.
package jobs

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// State is a job's lifecycle state.
type State int

const (
	StateQueued State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateTimedOut
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut:
		return true
	}
	return false
}

// MarshalJSON encodes the state as its string name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Job is a handle to one background unit. The runner owns all state
// transitions; callers only read. Terminal state is signalled by closing
// Done, so a caller can select on completion instead of polling the handle.
type Job struct {
	id   string
	name string
	done chan struct{}

	mu         sync.Mutex
	state      State
	startedAt  time.Time
	finishedAt time.Time
	output     string
}

func newJob(name string) *Job {
	return &Job{
		id:   GenerateID(),
		name: name + "-" + GenerateSuffix(),
		done: make(chan struct{}),
	}
}

// ID returns the opaque job identifier.
func (j *Job) ID() string { return j.id }

// Name returns the human-readable job name, including the random suffix.
func (j *Job) Name() string { return j.name }

// Done returns a channel closed once the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// State returns the current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Output returns the captured output. Empty until the job is terminal.
func (j *Job) Output() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

// Snapshot returns a point-in-time view of the job for reporting.
func (j *Job) Snapshot() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := Status{
		ID:        j.id,
		Name:      j.name,
		State:     j.state,
		StartedAt: j.startedAt,
	}
	if j.state.Terminal() {
		t := j.finishedAt
		st.FinishedAt = &t
		st.DurationMS = j.finishedAt.Sub(j.startedAt).Milliseconds()
		st.Output = j.output
	} else if !j.startedAt.IsZero() {
		st.DurationMS = time.Since(j.startedAt).Milliseconds()
	}
	return st
}

func (j *Job) markRunning(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateQueued {
		return
	}
	j.state = StateRunning
	j.startedAt = now
}

// finish records the terminal state exactly once. Later calls are ignored so
// a panic recovered after a normal finish cannot clobber the result.
func (j *Job) finish(state State, output string, now time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return false
	}
	if j.startedAt.IsZero() {
		j.startedAt = now
	}
	j.state = state
	j.finishedAt = now
	j.output = output
	close(j.done)
	return true
}

// Status is the JSON-serializable view of a job.
type Status struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      State      `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMS int64      `json:"duration_ms,omitempty"`
	Output     string     `json:"output,omitempty"`
}
