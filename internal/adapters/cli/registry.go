package cli

import (
	"fmt"
	"sync"

	"github.com/hugo-lorenzo-mato/testforge/internal/core"
)

// GeneratorFactory creates a generator from configuration.
type GeneratorFactory func(cfg ProviderConfig) (core.Generator, error)

// Registry manages available generation providers.
type Registry struct {
	factories  map[string]GeneratorFactory
	generators map[string]core.Generator
	configs    map[string]ProviderConfig
	mu         sync.RWMutex
}

// NewRegistry creates a registry with the built-in CLI factories.
func NewRegistry() *Registry {
	r := &Registry{
		factories:  make(map[string]GeneratorFactory),
		generators: make(map[string]core.Generator),
		configs:    make(map[string]ProviderConfig),
	}

	r.RegisterFactory("claude", NewClaudeAdapter)
	r.RegisterFactory("gemini", NewGeminiAdapter)
	r.RegisterFactory("codex", NewCodexAdapter)

	return r
}

// RegisterFactory registers a factory for a provider type.
func (r *Registry) RegisterFactory(name string, factory GeneratorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Register adds a generator directly to the registry.
func (r *Registry) Register(name string, gen core.Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
	return nil
}

// Configure sets configuration for a provider. Any cached instance is
// dropped so the next Get rebuilds it with the new config.
func (r *Registry) Configure(name string, cfg ProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[name] = cfg
	delete(r.generators, name)
}

// Get returns a generator by name, creating it if necessary.
func (r *Registry) Get(name string) (core.Generator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen, ok := r.generators[name]; ok {
		return gen, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, core.ErrNotFound("PROVIDER", name)
	}

	cfg, ok := r.configs[name]
	if !ok {
		cfg = ProviderConfig{Name: name}
	}

	gen, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating provider %s: %w", name, err)
	}

	r.generators[name] = gen
	return gen, nil
}

// List returns names of all registered providers.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories)+len(r.generators))
	seen := make(map[string]bool)
	for name := range r.factories {
		names = append(names, name)
		seen[name] = true
	}
	for name := range r.generators {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

var _ core.GeneratorRegistry = (*Registry)(nil)
