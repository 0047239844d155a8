package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
)

// StateQuerier reports the current provisioning state of a named resource.
// An error means the state could not be determined (resource not visible
// yet, transient failure); the poller treats that as "keep polling".
type StateQuerier interface {
	ProvisioningState(ctx context.Context, resourceGroup string, component deploy.Component, name string) (string, error)
}

// Session describes one monitoring session. Each session is independent:
// it owns its log file exclusively and shares no state with other sessions.
type Session struct {
	ResourceGroup string
	Component     deploy.Component
	ResourceName  string
	DesiredState  string        // default ProvisioningSucceeded
	PollInterval  time.Duration // default 30s
	Timeout       time.Duration // default 45m
	LogPath       string        // empty disables the session log file
}

func (s Session) withDefaults() Session {
	if s.DesiredState == "" {
		s.DesiredState = ProvisioningSucceeded
	}
	if s.PollInterval <= 0 {
		s.PollInterval = 30 * time.Second
	}
	if s.Timeout <= 0 {
		s.Timeout = 45 * time.Minute
	}
	return s
}

// Outcome is the result of one completed session.
type Outcome struct {
	State        SessionState  `json:"state"`
	LastObserved string        `json:"last_observed,omitempty"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Ticks        int           `json:"ticks"`
}

// Poller drives monitoring sessions against a StateQuerier.
type Poller struct {
	querier StateQuerier
	clock   Clock
	logger  zerolog.Logger
}

// NewPoller creates a poller. Pass RealClock outside tests.
func NewPoller(querier StateQuerier, clock Clock, logger zerolog.Logger) *Poller {
	return &Poller{querier: querier, clock: clock, logger: logger}
}

// Run polls until the resource reaches a terminal provisioning state or the
// timeout elapses. The first query happens immediately, not after a full
// interval. State changes and transitions are appended to the session log;
// unchanged observations are not, so long gateway deployments do not bloat
// the file. The returned error is non-nil only for StateError (context
// canceled or the log file could not be opened).
func (p *Poller) Run(ctx context.Context, sess Session) (Outcome, error) {
	sess = sess.withDefaults()

	log, err := openSessionLog(sess.LogPath, p.clock)
	if err != nil {
		return Outcome{State: StateError}, err
	}
	defer log.close()

	logger := p.logger.With().
		Str("component", sess.Component.String()).
		Str("resource", sess.ResourceName).
		Str("rg", sess.ResourceGroup).
		Logger()

	start := p.clock.Now()
	deadline := start.Add(sess.Timeout)
	out := Outcome{State: StatePolling}

	log.printf("monitoring %s %q in %s until %q (interval %s, timeout %s)",
		sess.Component, sess.ResourceName, sess.ResourceGroup,
		sess.DesiredState, sess.PollInterval, sess.Timeout)
	logger.Info().Dur("timeout", sess.Timeout).Msg("monitoring started")

	for {
		now := p.clock.Now()
		if !now.Before(deadline) {
			out.State = StateTimedOut
			out.Elapsed = now.Sub(start)
			log.printf("timed out after %s (last observed state %q)", out.Elapsed, out.LastObserved)
			logger.Warn().Int("ticks", out.Ticks).Msg("monitoring timed out")
			return out, nil
		}

		out.Ticks++
		observed, err := p.querier.ProvisioningState(ctx, sess.ResourceGroup, sess.Component, sess.ResourceName)
		if err != nil {
			if ctx.Err() != nil {
				out.State = StateError
				out.Elapsed = p.clock.Now().Sub(start)
				log.printf("monitoring aborted: %v", ctx.Err())
				return out, ctx.Err()
			}
			// Transient: resource may not exist yet. Stay in polling.
			logger.Warn().Err(err).Msg("state query failed, still polling")
		} else {
			if observed != out.LastObserved {
				if out.LastObserved == "" {
					log.printf("status changed: %q", observed)
				} else {
					log.printf("status changed: %q -> %q", out.LastObserved, observed)
				}
				logger.Info().Str("state", observed).Msg("status changed")
				out.LastObserved = observed
			}

			switch observed {
			case sess.DesiredState:
				out.State = StateSucceeded
			case ProvisioningFailed:
				out.State = StateFailed
			case ProvisioningCanceled:
				out.State = StateCanceled
			default:
				// Still in flight (Updating, Creating, ...). Keep polling.
			}
			if out.State.Terminal() {
				out.Elapsed = p.clock.Now().Sub(start)
				log.printf("%s after %s", out.State, out.Elapsed)
				logger.Info().Str("result", out.State.String()).Int("ticks", out.Ticks).Msg("monitoring finished")
				return out, nil
			}
		}

		select {
		case <-ctx.Done():
			out.State = StateError
			out.Elapsed = p.clock.Now().Sub(start)
			log.printf("monitoring aborted: %v", ctx.Err())
			return out, ctx.Err()
		case <-p.clock.After(sess.PollInterval):
		}
	}
}
