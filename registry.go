package agentdock

import "sync"

// Registry is the process-wide store of agent records, keyed by ID.
// It starts empty, is never persisted, and is the only mutable shared
// structure in the core. All operations are safe for concurrent use and
// atomic with respect to one another.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*Agent
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*Agent),
	}
}

// Put inserts a new record. It returns ErrAgentExists if the ID is
// already registered.
func (r *Registry) Put(a *Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[a.ID]; ok {
		return ErrAgentExists
	}
	r.agents[a.ID] = a
	return nil
}

// Get returns a copy of the record for the given ID.
func (r *Registry) Get(id string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return Agent{}, ErrAgentNotFound
	}
	return *a, nil
}

// Remove deletes the record for the given ID. Removing an ID that is
// already gone returns ErrAgentNotFound.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[id]; !ok {
		return ErrAgentNotFound
	}
	delete(r.agents, id)
	return nil
}

// List returns a snapshot of all current records.
func (r *Registry) List() []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, *a)
	}
	return out
}

// SetStatus updates the status of a registered agent. It reports
// whether the record still existed; a false return is not an error,
// the agent may have been deleted concurrently.
func (r *Registry) SetStatus(id string, status Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return false
	}
	a.Status = status
	return true
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
