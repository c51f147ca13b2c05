package charts

import (
	"sort"
	"sync"

	"covid-dashboard/src/interfaces"
)

// Registry holds the live handle of every chart panel. Each dashboard owns its own.
type Registry struct {
	handles map[string]interfaces.IChartHandle
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]interfaces.IChartHandle)}
}

// -----------------------------------------------------------------------------

// Replace disposes the previous handle of name, if any, before storing the new one.
func (r *Registry) Replace(name string, handle interfaces.IChartHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.handles[name]; ok && old != handle {
		old.Dispose()
	}
	r.handles[name] = handle
}

// -----------------------------------------------------------------------------

// Remove disposes and forgets the handle of name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.handles[name]; ok {
		old.Dispose()
		delete(r.handles, name)
	}
}

// -----------------------------------------------------------------------------

func (r *Registry) Get(name string) (interfaces.IChartHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[name]
	return h, ok
}

// -----------------------------------------------------------------------------

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, h := range r.handles {
		h.Dispose()
		delete(r.handles, name)
	}
}
