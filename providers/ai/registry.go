package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry maps provider names to backend factories. It is the thin
// configuration lookup between a resolved (model, provider) pair and a
// Backend; it does no routing of its own.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	catalog   *Catalog
}

// NewRegistry returns an empty registry that annotates specs with entries
// from catalog. A nil catalog is allowed.
func NewRegistry(catalog *Catalog) *Registry {
	return &Registry{
		factories: map[string]Factory{},
		catalog:   catalog,
	}
}

// Register installs the factory for provider, replacing any previous one.
func (r *Registry) Register(provider string, factory Factory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeProvider(provider)] = factory
	return r
}

// Providers lists the registered provider keys in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Catalog returns the registry's model catalog.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Acquire builds a new Backend for spec.
func (r *Registry) Acquire(ctx context.Context, spec Spec) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[normalizeProvider(spec.Provider)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, spec.Provider)
	}

	if spec.Info == nil {
		if info, found := r.catalog.Lookup(spec.Model, spec.Provider); found {
			spec.Info = &info
		}
	}

	backend, err := factory(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend for %s: %w", spec.Provider, spec.Model, err)
	}
	return backend, nil
}
