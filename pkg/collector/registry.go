package collector

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Registry.Get when no collector carries the
// requested name.
var ErrNotFound = errors.New("collector: not found")

// Registry stores collectors by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector by its Name(). Duplicate names return an error.
func (r *Registry) Register(c Collector) error {
	if c == nil {
		return fmt.Errorf("collector: collector is required")
	}
	name := strings.TrimSpace(c.Name())
	if name == "" {
		return fmt.Errorf("collector: collector name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.collectors == nil {
		r.collectors = make(map[string]Collector)
	}
	if _, exists := r.collectors[name]; exists {
		return fmt.Errorf("collector: collector %q already registered", name)
	}

	r.collectors[name] = c
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(c Collector) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a collector by name. Missing names yield an error wrapping
// ErrNotFound.
func (r *Registry) Get(name string) (Collector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// MustGet panics if the collector is missing.
func (r *Registry) MustGet(name string) Collector {
	c, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns a sorted list of collector names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a collector is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.collectors[name]
	return ok
}
