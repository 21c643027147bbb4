package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()                                 {}
func (n *NoopRecorder) IncLogin(string)                                    {}
func (n *NoopRecorder) IncCredentialsIssued()                              {}
func (n *NoopRecorder) IncPetCreated()                                     {}
func (n *NoopRecorder) IncAuthFailure(string)                              {}
func (n *NoopRecorder) IncRateLimited()                                    {}
func (n *NoopRecorder) ObserveRequestDuration(string, int, time.Duration) {}
