package client

import (
	"sort"
	"sync"
)

// Registry owns a set of named clients plus a lazily created default client.
// Callers share a *Registry explicitly; there is no package-level instance.
//
// Register replaces any client already stored under the same key. Remove only
// drops the registry's reference: calls already running on the removed client
// finish normally.
type Registry struct {
	mu            sync.RWMutex
	clients       map[string]*Client
	defaultConfig Config
	defaultClient *Client
}

// NewRegistry creates an empty registry. defaultConfig is used by Default.
func NewRegistry(defaultConfig Config) *Registry {
	return &Registry{
		clients:       make(map[string]*Client),
		defaultConfig: defaultConfig,
	}
}

// Register builds a client from cfg and stores it under key.
func (r *Registry) Register(cfg Config, key string) error {
	c, err := New(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[key] = c
	return nil
}

// Client returns the client stored under key. ok is false when the key is
// not registered.
func (r *Registry) Client(key string) (c *Client, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok = r.clients[key]
	return c, ok
}

// Remove deletes key from the registry. Removing an unknown key is a no-op.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, key)
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.clients))
	for k := range r.clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the default client, creating it from the registry's
// default configuration on first use.
func (r *Registry) Default() (*Client, error) {
	r.mu.RLock()
	c := r.defaultClient
	r.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultClient != nil {
		return r.defaultClient, nil
	}

	c, err := New(r.defaultConfig)
	if err != nil {
		return nil, err
	}
	r.defaultClient = c
	return c, nil
}
