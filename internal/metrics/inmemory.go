package metrics

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered      uint64
	Logins               map[string]uint64
	CredentialsIssued    uint64
	PetsCreated          uint64
	AuthFailures         map[string]uint64
	RateLimited          uint64
	RequestCount         uint64
	RequestDurationTotal time.Duration
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered   uint64
	credentialsIssued uint64
	petsCreated       uint64
	rateLimited       uint64
	requestCount      uint64
	requestDurationNs int64

	mu           sync.Mutex
	logins       map[string]uint64
	authFailures map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		logins:       make(map[string]uint64),
		authFailures: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	logins := maps.Clone(m.logins)
	failures := maps.Clone(m.authFailures)
	m.mu.Unlock()

	return Snapshot{
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
		Logins:               logins,
		CredentialsIssued:    atomic.LoadUint64(&m.credentialsIssued),
		PetsCreated:          atomic.LoadUint64(&m.petsCreated),
		AuthFailures:         failures,
		RateLimited:          atomic.LoadUint64(&m.rateLimited),
		RequestCount:         atomic.LoadUint64(&m.requestCount),
		RequestDurationTotal: time.Duration(atomic.LoadInt64(&m.requestDurationNs)),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.logins[outcome]++
	m.mu.Unlock()
}

// IncCredentialsIssued increments the issued credentials counter.
func (m *InMemoryRecorder) IncCredentialsIssued() {
	atomic.AddUint64(&m.credentialsIssued, 1)
}

// IncPetCreated increments the pet counter.
func (m *InMemoryRecorder) IncPetCreated() {
	atomic.AddUint64(&m.petsCreated, 1)
}

// IncAuthFailure counts a rejected signed request by reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}

// IncRateLimited increments the throttled request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// ObserveRequestDuration records request duration.
func (m *InMemoryRecorder) ObserveRequestDuration(_ string, _ int, duration time.Duration) {
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddInt64(&m.requestDurationNs, duration.Nanoseconds())
}
