package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry resolves renderers by name. Registration happens once at wiring
// time; lookups run concurrently with request handling.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

// Register adds a renderer under its Name(). Registering the same name twice
// is a wiring mistake and fails rather than replacing.
func (g *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer has no name")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.byName[name]; taken {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	g.byName[name] = renderer
	return nil
}

// MustRegister panics on registration failure, for init-time wiring where a
// duplicate means the program is miswired.
func (g *Registry) MustRegister(renderer Renderer) {
	if err := g.Register(renderer); err != nil {
		panic(err)
	}
}

// Get resolves a renderer by name.
func (g *Registry) Get(name string) (Renderer, error) {
	g.mu.RLock()
	renderer, ok := g.byName[name]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Has reports whether a renderer is registered under name.
func (g *Registry) Has(name string) bool {
	_, err := g.Get(name)
	return err == nil
}

// List returns the registered names in sorted order.
func (g *Registry) List() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.byName))
	for name := range g.byName {
		names = append(names, name)
	}
	g.mu.RUnlock()

	sort.Strings(names)
	return names
}
