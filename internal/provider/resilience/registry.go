package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth is a point-in-time view of one provider's condition,
// surfaced through the ops status endpoint.
type ProviderHealth struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Healthy reports whether the provider circuit is closed.
func (h ProviderHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks provider clients and their recent outcomes.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*providerEntry
}

type providerEntry struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// GlobalRegistry is the process-wide provider registry. Clients created by
// NewClient register themselves here.
var GlobalRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]*providerEntry)}
}

// Register adds a provider client. Re-registering a name replaces the entry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = &providerEntry{client: client}
}

// RecordSuccess notes a successful request for a provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed request for a provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastFailureAt = &now
		if err != nil {
			p.lastError = err.Error()
		}
	}
}

// AllHealth returns the health of every registered provider.
func (r *Registry) AllHealth() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]ProviderHealth, 0, len(r.providers))
	for name, p := range r.providers {
		health = append(health, ProviderHealth{
			Name:          name,
			CircuitState:  p.client.BreakerState(),
			Counts:        p.client.BreakerCounts(),
			LastSuccessAt: p.lastSuccessAt,
			LastFailureAt: p.lastFailureAt,
			LastError:     p.lastError,
		})
	}
	return health
}
