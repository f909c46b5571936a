package flow

import (
	"sort"
	"sync"

	"github.com/mherr/prefect/util"
)

// Factory constructs one task instance. The loader invokes the factory once
// per spec task, so every flow built from a spec gets its own instances and
// per-task overrides never leak across tasks or loads.
type Factory func() Task

// Registry provides named task factories for building flows from specs.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a task factory under a component name.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a task factory by component name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// List returns sorted names of all registered components.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := util.Keys(r.factories)
	sort.Strings(names)
	return names
}
