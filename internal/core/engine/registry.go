package engine

import (
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// NodeFactory constructs a check or action from its parameter node. A
// malformed parameter shape must fail here with ErrConfiguration so rule
// authoring mistakes surface at build time, not mid-run.
type NodeFactory func(params *yaml.Node, deps *Dependencies) (Node, error)

// Registry holds the fixed step-name→constructor table the runner selects
// node variants from.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]NodeFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]NodeFactory)}
}

// Register adds a node factory under a step name.
func (r *Registry) Register(name string, factory NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a node factory by step name.
func (r *Registry) Get(name string) (NodeFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered step names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
