package monitor

import "time"

// Clock abstracts wall-clock time so tests can drive the poll loop without
// real sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the production clock.
var RealClock Clock = realClock{}
