package project

import (
	"fmt"
	"sort"
	"sync"
)

// Registry provides shared read access to a loaded configuration document
type Registry struct {
	mu     sync.RWMutex
	config Config
}

// NewRegistry creates a registry over a validated configuration
func NewRegistry(config Config) *Registry {
	return &Registry{
		config: config,
	}
}

// Config returns the underlying configuration document
func (r *Registry) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config
}

// Get retrieves a project entry by name
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.config[name]
	if !exists {
		return Entry{}, fmt.Errorf("project '%s' not found", name)
	}

	return entry, nil
}

// List returns all project names in sorted order, excluding defaults
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.config.ProjectNames()
	sort.Strings(names)

	return names
}

// Count returns the number of configured projects
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.config.ProjectNames())
}
