package cache

import (
	"context"
	"sync"
	"time"

	"github.com/petgateway/petgateway/internal/model"
)

// MemorySessions is an in-process session store for single-instance
// deployments and tests. Expired sessions are dropped on read and by Sweep.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewMemorySessions creates an empty store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

// SaveSession stores a copy of s.
func (m *MemorySessions) SaveSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.AccessKeyID] = *s
	return nil
}

// GetSession returns the session for accessKeyID, or nil when unknown or
// expired.
func (m *MemorySessions) GetSession(_ context.Context, accessKeyID string) (*model.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[accessKeyID]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.IsExpired(m.now()) {
		_ = m.DeleteSession(context.Background(), accessKeyID)
		return nil, nil
	}
	return &s, nil
}

// DeleteSession revokes a session.
func (m *MemorySessions) DeleteSession(_ context.Context, accessKeyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accessKeyID)
	return nil
}

// Sweep removes expired sessions and returns how many were removed.
func (m *MemorySessions) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, k)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemorySessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
