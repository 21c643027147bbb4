// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginError   = "error"
)

// Recorder captures metric events for the gateway.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(outcome string)
	IncCredentialsIssued()

	// Pet metrics
	IncPetCreated()

	// Edge metrics
	IncAuthFailure(reason string)
	IncRateLimited()
	ObserveRequestDuration(route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
