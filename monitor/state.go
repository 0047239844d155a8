// Package monitor polls the control plane for a resource's provisioning
// state until it reaches a desired terminal value or a timeout elapses.
package monitor

import (
	"encoding/json"
	"fmt"
)

// Provisioning-state strings surfaced by the Azure control plane.
const (
	ProvisioningSucceeded = "Succeeded"
	ProvisioningFailed    = "Failed"
	ProvisioningCanceled  = "Canceled"
)

// SessionState is the poller's own lifecycle state. Everything except
// StatePolling is terminal.
type SessionState int

const (
	StatePolling SessionState = iota
	StateSucceeded
	StateFailed
	StateCanceled
	StateTimedOut
	StateError
)

// String returns the state's display name.
func (s SessionState) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	case StateTimedOut:
		return "timed-out"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state ends the session.
func (s SessionState) Terminal() bool {
	return s != StatePolling
}

// MarshalJSON encodes the state as its string name.
func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
