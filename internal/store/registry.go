// Package store keeps the registry of content-store backends. Backends are
// registered by name at wiring time and resolved from configuration, so the
// publishing pipeline never knows which host it is talking to.
package store

import (
	"context"
	"fmt"

	"RecipePress/internal/config"
	"RecipePress/internal/ports"
)

// Backend opens the store contracts for one host kind (wordpress, postgres).
// It receives the full configuration: connection settings live under Store,
// but record routing also depends on the publish settings.
type Backend interface {
	Name() string
	Open(ctx context.Context, cfg config.Config) (ports.ContentStore, ports.TaxonomyStore, error)
}

// Registry maps backend names to their implementations.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: map[string]Backend{}}
}

// Register adds or replaces a backend implementation.
func (r *Registry) Register(backend Backend) {
	if r.backends == nil {
		r.backends = map[string]Backend{}
	}
	r.backends[backend.Name()] = backend
}

// Resolve returns a backend by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Backend, error) {
	if backend, ok := r.backends[name]; ok {
		return backend, nil
	}
	return nil, fmt.Errorf("store backend %s is not registered", name)
}
