package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrTimedOut marks a background unit that gave up waiting on the control
// plane. The runner records it as StateTimedOut instead of StateFailed so
// callers can tell the two apart.
var ErrTimedOut = errors.New("timed out")

// Runner spawns background units. Each unit runs in its own goroutine with
// no shared state beyond the job handle; results travel back through the
// handle's terminal state and captured output.
type Runner struct {
	registry *Registry
	bus      *EventBus
	logger   zerolog.Logger
}

// NewRunner creates a runner that registers every spawned job in the given
// registry. The bus may be nil when nobody watches transitions.
func NewRunner(registry *Registry, bus *EventBus, logger zerolog.Logger) *Runner {
	return &Runner{registry: registry, bus: bus, logger: logger}
}

// Start spawns fn as a background unit and returns its handle immediately.
// Any error or panic inside fn becomes a terminal state on the handle; the
// caller is never blocked and never sees a panic.
func (r *Runner) Start(ctx context.Context, name string, fn func(context.Context) (string, error)) *Job {
	j := newJob(name)
	r.registry.Add(j)
	r.publish(j)

	r.logger.Debug().Str("job", j.Name()).Str("id", j.ID()).Msg("job queued")

	go func() {
		defer func() {
			if p := recover(); p != nil {
				if j.finish(StateFailed, fmt.Sprintf("panic: %v", p), time.Now()) {
					r.logger.Error().Str("job", j.Name()).Msgf("job panicked: %v", p)
					r.publish(j)
				}
			}
		}()

		j.markRunning(time.Now())
		r.publish(j)

		output, err := fn(ctx)
		switch {
		case err == nil:
			j.finish(StateCompleted, output, time.Now())
			r.logger.Info().Str("job", j.Name()).Msg("job completed")
		case errors.Is(err, ErrTimedOut) || errors.Is(err, context.DeadlineExceeded):
			j.finish(StateTimedOut, joinOutput(output, err), time.Now())
			r.logger.Warn().Str("job", j.Name()).Msg("job timed out")
		default:
			j.finish(StateFailed, joinOutput(output, err), time.Now())
			r.logger.Error().Str("job", j.Name()).Err(err).Msg("job failed")
		}
		r.publish(j)
	}()

	return j
}

func (r *Runner) publish(j *Job) {
	if r.bus == nil {
		return
	}
	snap := j.Snapshot()
	r.bus.Publish(Event{
		JobID:  snap.ID,
		Name:   snap.Name,
		State:  snap.State,
		Output: snap.Output,
		Time:   time.Now(),
	})
}

func joinOutput(output string, err error) string {
	if output == "" {
		return err.Error()
	}
	return output + "\n" + err.Error()
}
