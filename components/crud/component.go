package crud

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-admin/pkg/descriptor"
	"github.com/goliatone/go-admin/pkg/render"
	"github.com/goliatone/go-admin/pkg/schema"
)

// Resource pairs a form definition with a persistence backend. The form
// drives validation, rendering, and the fields accepted on write.
type Resource struct {
	// Name is the path segment the resource mounts under ("users").
	Name  string
	Form  descriptor.Form
	Store Store
}

// Component hosts the HTTP surface for a set of registered resources.
type Component struct {
	mu        sync.RWMutex
	resources map[string]*resourceState
	renderers *render.Registry
	logger    logrus.FieldLogger
	pageSize  int
}

type resourceState struct {
	resource Resource
	schema   schema.Schema
}

// Option configures a Component.
type Option func(*Component)

// WithRenderers supplies the registry used for HTML pages. Without one the
// HTML endpoints respond 406.
func WithRenderers(registry *render.Registry) Option {
	return func(c *Component) {
		if registry != nil {
			c.renderers = registry
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultPageSize sets the list page size used when the request omits
// one.
func WithDefaultPageSize(size int) Option {
	return func(c *Component) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// New creates an empty component.
func New(options ...Option) *Component {
	c := &Component{
		resources: make(map[string]*resourceState),
		logger:    logrus.StandardLogger(),
		pageSize:  25,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register adds a resource. The form's validation schema is built eagerly so
// definition mistakes surface at wiring time, not per request.
func (c *Component) Register(resource Resource) error {
	if resource.Name == "" {
		return fmt.Errorf("crud: resource name is required")
	}
	if resource.Store == nil {
		return fmt.Errorf("crud: resource %q needs a store", resource.Name)
	}
	if err := descriptor.ValidateForm(resource.Form); err != nil {
		return fmt.Errorf("crud: resource %q: %w", resource.Name, err)
	}
	built, err := schema.Build(resource.Form.Fields)
	if err != nil {
		return fmt.Errorf("crud: resource %q: %w", resource.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.resources[resource.Name]; exists {
		return fmt.Errorf("crud: resource %q already registered", resource.Name)
	}
	c.resources[resource.Name] = &resourceState{resource: resource, schema: built}
	return nil
}

// UpdateForm swaps a registered resource's form definition, rebuilding its
// validation schema. Used for definition hot-reload; the store is untouched.
func (c *Component) UpdateForm(name string, form descriptor.Form) error {
	if err := descriptor.ValidateForm(form); err != nil {
		return fmt.Errorf("crud: resource %q: %w", name, err)
	}
	built, err := schema.Build(form.Fields)
	if err != nil {
		return fmt.Errorf("crud: resource %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.resources[name]
	if !ok {
		return fmt.Errorf("crud: resource %q not registered", name)
	}
	state.resource.Form = form
	state.schema = built
	return nil
}

// Resources returns the registered resource names.
func (c *Component) Resources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}
	return names
}

// lookup returns a copy so request handling never races UpdateForm.
func (c *Component) lookup(name string) (resourceState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, ok := c.resources[name]
	if !ok {
		return resourceState{}, false
	}
	return *state, true
}
